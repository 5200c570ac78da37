// Package factory provides the generic registry used to build pluggable
// modules (metrics sinks, history backends) from configuration. A module is
// described by a type string and a map of raw settings; factories decode the
// settings into typed structs with Decode.
//
//	reg := factory.NewRegistry[io.Reader]("reader")
//	_ = reg.Register("file", func(conf map[string]any) (io.Reader, error) {
//	    var c struct{ Path string `json:"path"` }
//	    if err := factory.Decode(conf, &c); err != nil {
//	        return nil, err
//	    }
//	    return os.Open(c.Path)
//	})
//	r, err := reg.Create(factory.ModuleConfig{Type: "file", Conf: map[string]any{"path": "foo"}})
package factory
