package testing

import (
	"fmt"

	"github.com/go-drift/retain/pkg/native"
)

func (t *WidgetTester) first(op string, finder Finder) (Element, error) {
	result := t.Find(finder)
	if !result.Exists() {
		return Element{}, fmt.Errorf("%s: finder matched no elements: %s", op, finder.Description())
	}
	return result.First(), nil
}

// Tap clicks the first widget matched by finder and pumps.
func (t *WidgetTester) Tap(finder Finder) error {
	e, err := t.first("Tap", finder)
	if err != nil {
		return err
	}
	if err := t.backend.Click(e.Handle()); err != nil {
		return err
	}
	return t.Pump()
}

// PressKey delivers key to the first widget matched by finder and pumps.
func (t *WidgetTester) PressKey(finder Finder, key native.KeyCode) error {
	e, err := t.first("PressKey", finder)
	if err != nil {
		return err
	}
	if err := t.backend.PressKey(e.Handle(), key); err != nil {
		return err
	}
	return t.Pump()
}

// EnterText replaces the text of the first edit box matched by finder and
// pumps.
func (t *WidgetTester) EnterText(finder Finder, text string) error {
	e, err := t.first("EnterText", finder)
	if err != nil {
		return err
	}
	if err := t.backend.Type(e.Handle(), text); err != nil {
		return err
	}
	return t.Pump()
}

// SelectItem picks item index of the first combo box matched by finder
// and pumps.
func (t *WidgetTester) SelectItem(finder Finder, index int) error {
	e, err := t.first("SelectItem", finder)
	if err != nil {
		return err
	}
	if err := t.backend.Select(e.Handle(), index); err != nil {
		return err
	}
	return t.Pump()
}

// Resize sets the outer size of the first widget matched by finder and
// pumps.
func (t *WidgetTester) Resize(finder Finder, width, height int) error {
	e, err := t.first("Resize", finder)
	if err != nil {
		return err
	}
	if err := t.backend.Resize(e.Handle(), width, height); err != nil {
		return err
	}
	return t.Pump()
}

// Close closes the first widget matched by finder and pumps.
func (t *WidgetTester) Close(finder Finder) error {
	e, err := t.first("Close", finder)
	if err != nil {
		return err
	}
	t.backend.Close(e.Handle())
	return t.Pump()
}
