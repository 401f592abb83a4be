package config

import (
	"log"
	"os"

	"github.com/klytics/cellkit/internal/audit"
	"github.com/klytics/cellkit/internal/writer"
)

// WriterOptions returns the writer options implied by the settings: the
// audit log when audit.enabled is set and a stderr logger when verbose.
func (c *Config) WriterOptions(verbose bool) []writer.Option {
	var opts []writer.Option
	if c.Audit.Enabled {
		opts = append(opts, writer.WithAuditor(audit.NewLogger(c.Audit.Path, true)))
	}
	if verbose {
		opts = append(opts, writer.WithLogger(log.New(os.Stderr, "[writer] ", log.LstdFlags)))
	}
	return opts
}
