package handler

import (
	"log/slog"

	"github.com/Alia5/padbind/apitypes"
	"github.com/Alia5/padbind/internal/server/api"
	"github.com/Alia5/padbind/joypad"
)

// CatalogEntries lists c in order, naming the input each entry is the
// default for.
func CatalogEntries(c *joypad.Catalog) []apitypes.CatalogEntry {
	out := make([]apitypes.CatalogEntry, 0, c.Len())
	for i := 0; i < c.Len(); i++ {
		b := c.At(i)
		e := apitypes.CatalogEntry{Index: i, Key: uint64(b.Key), Label: b.Label}
		if i < int(joypad.InputCount) {
			e.Input = joypad.Input(i).String()
		}
		out = append(out, e)
	}
	return out
}

// Catalog returns the binding catalog of the running platform.
func Catalog(r Runner) api.HandlerFunc {
	return func(req *api.Request, res *api.Response, logger *slog.Logger) error {
		var p *joypad.Platform
		if err := run(req, r, func(d *joypad.Driver) { p = d.Platform() }); err != nil {
			return err
		}
		return respond(res, apitypes.CatalogResponse{Platform: p.Name, Entries: CatalogEntries(p.Catalog)})
	}
}
