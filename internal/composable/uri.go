package composable

import (
	"github.com/dshills/ksreactive/internal/host"
	"github.com/dshills/ksreactive/internal/reactive"
)

// UseURI parses uri whenever it changes. Unparsable input yields the zero
// URI.
func UseURI(uri reactive.Value[string]) reactive.Readable[host.URI] {
	return reactive.NewComputed(func() host.URI {
		u, err := host.ParseURI(uri.Get())
		if err != nil {
			return host.URI{}
		}
		return u
	})
}

// UseFileURI is the file URI of path. An empty path yields the zero URI.
func UseFileURI(path reactive.Value[string]) reactive.Readable[host.URI] {
	return reactive.NewComputed(func() host.URI {
		p := path.Get()
		if p == "" {
			return host.URI{}
		}
		return host.File(p)
	})
}
