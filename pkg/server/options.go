package server

// Options contains configurable options for the WebSocket server.
type Options struct {
	ListenAddress  string
	Path           string
	SendBufferSize int
}

// NewOptions will create a new Options type with some default values.
//
//	ListenAddress: ":8080"
//	Path: "/it100"
//	SendBufferSize: 256
func NewOptions() *Options {
	return &Options{
		ListenAddress:  ":8080",
		Path:           "/it100",
		SendBufferSize: 256,
	}
}

// SetListenAddress will set the address the HTTP server listens on.
func (o *Options) SetListenAddress(address string) *Options {
	o.ListenAddress = address
	return o
}

// SetPath will set the path of the WebSocket endpoint.
func (o *Options) SetPath(path string) *Options {
	o.Path = path
	return o
}

// SetSendBufferSize will set how many frames can be queued for a client before
// it is considered too slow and disconnected.
func (o *Options) SetSendBufferSize(size int) *Options {
	o.SendBufferSize = size
	return o
}
