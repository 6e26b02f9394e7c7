package platform

// NativeBridge defines the interface for calling native platform code.
type NativeBridge interface {
	// InvokeMethod calls a method on the native side.
	InvokeMethod(channel, method string, args []byte) ([]byte, error)
}

// MethodChannel provides method-call communication with native code.
type MethodChannel struct {
	name   string
	codec  MessageCodec
	bridge NativeBridge
}

// NewMethodChannel creates a method channel with the given name on bridge.
func NewMethodChannel(name string, bridge NativeBridge) *MethodChannel {
	return &MethodChannel{
		name:   name,
		codec:  DefaultCodec,
		bridge: bridge,
	}
}

// Name returns the channel name.
func (c *MethodChannel) Name() string {
	return c.name
}

// Invoke calls a method on the native side and returns the decoded result.
// This blocks until the native side responds or an error occurs.
func (c *MethodChannel) Invoke(method string, args any) (any, error) {
	data, err := c.call(method, args)
	if err != nil {
		return nil, err
	}
	return c.codec.Decode(data)
}

// InvokeInto calls a method on the native side and decodes the result
// into out. A nil out discards the result.
func (c *MethodChannel) InvokeInto(method string, args any, out any) error {
	data, err := c.call(method, args)
	if err != nil {
		return err
	}
	if out == nil || len(data) == 0 {
		return nil
	}
	return c.codec.DecodeInto(data, out)
}

func (c *MethodChannel) call(method string, args any) ([]byte, error) {
	if c.bridge == nil {
		return nil, ErrNotConnected
	}
	argsData, err := c.codec.Encode(args)
	if err != nil {
		return nil, err
	}
	return c.bridge.InvokeMethod(c.name, method, argsData)
}
