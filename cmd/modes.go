package cmd

import (
	"fmt"
	"io"

	"github.com/lehigh-university-libraries/osti-extract/extract"
	"github.com/lehigh-university-libraries/osti-extract/sink"
)

func listModes(out io.Writer) error {
	for _, m := range extract.Modes() {
		fmt.Fprintf(out, "%-20s %s\n", m.Flag(), m.Description())
		fmt.Fprintf(out, "%-20s writes %s/<record>_%s.txt and %s/%s%s\n", "", m.Name(), m.Name(), m.Name(), m.Name(), sink.AggregateSuffix)
	}
	return nil
}
