package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/Alia5/padbind/apitypes"
	"github.com/Alia5/padbind/internal/server/api/handler"
	"github.com/Alia5/padbind/joypad"
)

// Catalog prints the binding catalog of a platform without starting a server.
type Catalog struct {
	Platform string `arg:"" optional:"" help:"Controller platform" enum:"xbox360,xbox" default:"xbox360"`
	JSON     bool   `help:"Print JSON instead of a table"`
}

func (c *Catalog) Run() error {
	return c.write(os.Stdout)
}

func (c *Catalog) write(w io.Writer) error {
	p, err := joypad.PlatformByName(c.Platform)
	if err != nil {
		return err
	}
	entries := handler.CatalogEntries(p.Catalog)
	if c.JSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(apitypes.CatalogResponse{Platform: p.Name, Entries: entries})
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "INDEX\tINPUT\tKEY\tLABEL")
	for _, e := range entries {
		fmt.Fprintf(tw, "%d\t%s\t%#x\t%s\n", e.Index, e.Input, e.Key, e.Label)
	}
	return tw.Flush()
}
