package core

import (
	stderrors "errors"
	"slices"

	"github.com/go-drift/retain/pkg/anchor"
	"github.com/go-drift/retain/pkg/errors"
	"github.com/go-drift/retain/pkg/geom"
	"github.com/go-drift/retain/pkg/native"
	"github.com/go-drift/retain/pkg/props"
)

// DefaultWindowWidth and DefaultWindowHeight size windows that declare no
// geometry.
const (
	DefaultWindowWidth  = 640
	DefaultWindowHeight = 480
)

type kindInfo struct {
	class string
	style native.Style
	// padding added around the measured title for natural sizing.
	padX, padY int
}

var kinds = map[props.RenderKind]kindInfo{
	props.KindWindow:   {class: native.ClassWindow, style: native.StyleOverlapped},
	props.KindPanel:    {class: native.ClassPanel},
	props.KindButton:   {class: native.ClassButton, style: native.StylePushButton | native.StyleTabStop, padX: 16, padY: 10},
	props.KindLabel:    {class: native.ClassStatic, padX: 2, padY: 2},
	props.KindTextBox:  {class: native.ClassEdit, style: native.StyleBorder | native.StyleTabStop, padX: 8, padY: 8},
	props.KindCheckBox: {class: native.ClassButton, style: native.StyleCheckBox | native.StyleTabStop, padX: 20, padY: 4},
	props.KindRadioBox: {class: native.ClassButton, style: native.StyleRadioButton | native.StyleTabStop, padX: 20, padY: 4},
	props.KindGroupBox: {class: native.ClassButton, style: native.StyleGroupBox, padX: 16, padY: 24},
	props.KindSelect:   {class: native.ClassComboBox, style: native.StyleDropDownList | native.StyleTabStop, padX: 24, padY: 8},
}

// Reconciler creates and updates native widgets from view states.
type Reconciler struct {
	backend native.Backend
	anchors *anchor.Registry
	errs    errors.ErrorHandler

	// Layout configures the first layout of every container. SizeGrip only
	// applies to windows, FitParent only to containers without declared
	// geometry.
	Layout anchor.Options

	fonts  map[string]native.Font
	nextID int
}

// NewReconciler creates a reconciler that registers widgets with anchors
// and reports native failures to errs.
func NewReconciler(backend native.Backend, anchors *anchor.Registry, errs errors.ErrorHandler) *Reconciler {
	return &Reconciler{
		backend: backend,
		anchors: anchors,
		errs:    errs,
		fonts:   make(map[string]native.Font),
	}
}

func (r *Reconciler) report(op string, kind errors.ErrorKind, path Path, h native.Handle, err error) {
	errors.Report(r.errs, &errors.EngineError{
		Op:     op,
		Kind:   kind,
		Path:   string(path),
		Handle: uintptr(h),
		Err:    err,
	})
}

func classFor(set props.Set) (kindInfo, bool) {
	info, ok := kinds[set.Kind()]
	if !ok {
		return kindInfo{}, false
	}
	if class, ok := set.Text(props.TagClass); ok && class != "" {
		info.class = class
	}
	return info, true
}

// Reconcile brings the widget at path in line with set. It returns the new
// state and false when there is no live widget to remember.
//
// Every native failure is reported and leaves the previous state in place,
// so the widget is retried on the next render.
func (r *Reconciler) Reconcile(path Path, prev WidgetState, exists bool, set props.Set, parent native.Handle) (WidgetState, bool) {
	info, ok := classFor(set)
	if !ok {
		return prev, exists
	}
	if !exists {
		s, err := r.create(path, set, info, parent)
		if err != nil {
			r.report("core.Reconcile", errors.KindBackend, path, 0, err)
			return WidgetState{}, false
		}
		return s, true
	}
	if prev.Destroyed {
		return prev, true
	}

	if prev.Parent != parent {
		// The parent was recreated and took its children with it.
		return r.recreate(path, prev, set, info, parent)
	}
	class, err := r.backend.ClassName(prev.Handle)
	if err != nil {
		if stderrors.Is(err, native.ErrInvalidHandle) {
			r.anchors.Unregister(prev.Handle)
			prev.Destroyed = true
			return prev, true
		}
		r.report("core.Reconcile", errors.KindBackend, path, prev.Handle, err)
		return prev, true
	}
	if class != info.class {
		return r.recreate(path, prev, set, info, parent)
	}

	s := r.sync(path, prev, set)
	if !s.Kind.IsContainer() && s.Init < Established {
		s.Init++
	}
	return s, true
}

func (r *Reconciler) recreate(path Path, prev WidgetState, set props.Set, info kindInfo, parent native.Handle) (WidgetState, bool) {
	if err := r.backend.Destroy(prev.Handle); err != nil && !stderrors.Is(err, native.ErrInvalidHandle) {
		r.report("core.Reconcile", errors.KindBackend, path, prev.Handle, err)
		return prev, true
	}
	r.anchors.Unregister(prev.Handle)

	s, err := r.create(path, set, info, parent)
	if err != nil {
		// The old widget is gone; start over from scratch next render.
		r.report("core.Reconcile", errors.KindBackend, path, prev.Handle, err)
		return WidgetState{}, false
	}
	s.Listeners = prev.Listeners
	return s, true
}

func (r *Reconciler) font(face string) (native.Font, error) {
	if f, ok := r.fonts[face]; ok {
		return f, nil
	}
	f, err := r.backend.CreateFont(face)
	if err != nil {
		return 0, err
	}
	r.fonts[face] = f
	return f, nil
}

// naturalRect returns the rectangle a widget is created with. Declared
// geometry wins; a missing width or height falls back to the measured
// extent of the title plus the kind's padding.
func (r *Reconciler) naturalRect(set props.Set, info kindInfo, f native.Font) geom.Rect {
	x, _ := set.Int(props.TagX)
	y, _ := set.Int(props.TagY)
	w, hasW := set.Int(props.TagWidth)
	h, hasH := set.Int(props.TagHeight)
	if hasW && hasH {
		return geom.RectFromLTWH(x, y, w, h)
	}
	if set.Kind() == props.KindWindow {
		if !hasW {
			w = DefaultWindowWidth
		}
		if !hasH {
			h = DefaultWindowHeight
		}
		return geom.RectFromLTWH(x, y, w, h)
	}
	title, _ := set.Text(props.TagTitle)
	if items, ok := set.Strings(props.TagItems); ok && set.Kind() == props.KindSelect {
		for _, item := range items {
			if len(item) > len(title) {
				title = item
			}
		}
	}
	tw, th, err := r.backend.MeasureText(f, title)
	if err != nil {
		tw, th = 0, 0
	}
	if !hasW {
		w = tw + info.padX
	}
	if !hasH {
		h = th + info.padY
	}
	return geom.RectFromLTWH(x, y, w, h)
}

func (r *Reconciler) create(path Path, set props.Set, info kindInfo, parent native.Handle) (WidgetState, error) {
	var f native.Font
	if face, ok := set.Text(props.TagFont); ok && face != "" {
		var err error
		if f, err = r.font(face); err != nil {
			r.report("core.create", errors.KindBackend, path, 0, err)
		}
	}

	style := info.style | native.StyleVisible
	if parent != 0 {
		style |= native.StyleChild
	}
	title, _ := set.Text(props.TagTitle)
	r.nextID++
	id := r.nextID
	h, err := r.backend.CreateWidget(native.CreateParams{
		Class:  info.class,
		Style:  style,
		Parent: parent,
		ID:     id,
		Title:  title,
		Rect:   r.naturalRect(set, info, f),
	})
	if err != nil {
		return WidgetState{}, err
	}

	s := WidgetState{
		Handle: h,
		Init:   Created,
		Kind:   set.Kind(),
		Class:  info.class,
		Parent: parent,
		ID:     id,
	}
	r.anchors.Register(parent, id, h, set.AnchorFlags())
	return r.sync(path, s, set), nil
}

// sync applies font, title, check state, items and selection, each only
// when it differs from the live native value.
func (r *Reconciler) sync(path Path, s WidgetState, set props.Set) WidgetState {
	h := s.Handle
	fail := func(err error) {
		r.report("core.sync", errors.KindBackend, path, h, err)
	}

	if face, ok := set.Text(props.TagFont); ok && face != "" {
		if want, err := r.font(face); err != nil {
			fail(err)
		} else if live, err := r.backend.Font(h); err != nil {
			fail(err)
		} else if live == want {
			s.Font = want
		} else if err := r.backend.SetFont(h, want); err != nil {
			fail(err)
		} else {
			s.Font = want
		}
	}

	if want, ok := set.Text(props.TagTitle); ok {
		if live, err := r.backend.Text(h); err != nil {
			fail(err)
		} else if live != want {
			if err := r.backend.SetText(h, want); err != nil {
				fail(err)
			}
		}
	}

	if want, ok := set.Bool(props.TagSelected); ok && (s.Kind == props.KindCheckBox || s.Kind == props.KindRadioBox) {
		if live, err := r.backend.Checked(h); err != nil {
			fail(err)
		} else if live != want {
			if err := r.backend.SetChecked(h, want); err != nil {
				fail(err)
			}
		}
	}

	if s.Kind == props.KindSelect {
		if want, ok := set.Strings(props.TagItems); ok {
			if live, err := r.backend.Items(h); err != nil {
				fail(err)
			} else if !slices.Equal(live, want) {
				if err := r.backend.SetItems(h, want); err != nil {
					fail(err)
				}
			}
		}
		if want, ok := set.Int(props.TagSelectedIndex); ok {
			if live, err := r.backend.SelectedIndex(h); err != nil {
				fail(err)
			} else if live != want {
				if err := r.backend.SetSelectedIndex(h, want); err != nil {
					fail(err)
				}
			}
		}
	}
	return s
}

// Establish runs the first layout of a container whose children have all
// been reconciled. It does nothing for other kinds or established
// containers. On failure the container stays Created and is retried on the
// next render.
func (r *Reconciler) Establish(path Path, s WidgetState, set props.Set) WidgetState {
	if !s.Kind.IsContainer() || s.Init != Created || s.Destroyed {
		return s
	}
	opts := r.Layout
	if s.Kind != props.KindWindow {
		opts.SizeGrip = false
	}
	if set.Has(props.TagWidth) && set.Has(props.TagHeight) {
		opts.FitParent = false
	}
	m := r.anchors.For(s.Handle)
	if err := m.Initialize(opts); err != nil {
		r.report("core.Establish", errors.KindLayout, path, s.Handle, err)
		return s
	}
	m.HandleAnchors(nil)
	s.Init = Established
	return s
}
