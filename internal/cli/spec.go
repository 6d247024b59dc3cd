package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vitalvas/routedoc/internal/config"
	"github.com/vitalvas/routedoc/internal/server"
	"github.com/vitalvas/routedoc/internal/users"
	"github.com/vitalvas/routedoc/swagger"
)

const (
	formatJSON     = "json"
	formatYAML     = "yaml"
	formatOpenAPI3 = "openapi3"
)

func newSpecCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "spec",
		Short: "Print the API description without starting the server",
		Example: strings.TrimSpace(`  usersvc spec --format yaml
  usersvc spec --format openapi3 --out openapi.json`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := cmd.Flags().GetString("format")
			if err != nil {
				return err
			}
			format = strings.ToLower(strings.TrimSpace(format))
			switch format {
			case formatJSON, formatYAML, formatOpenAPI3:
			default:
				return newUsageError(fmt.Sprintf("unsupported format %q (expected json, yaml or openapi3)\n\n%s", format, cmd.UsageString()))
			}

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			data, err := renderSpec(cfg, format)
			if err != nil {
				return err
			}

			out, err := cmd.Flags().GetString("out")
			if err != nil {
				return err
			}
			if out = strings.TrimSpace(out); out != "" {
				return os.WriteFile(out, data, 0o644)
			}
			return writeAll(cmd.OutOrStdout(), data)
		},
	}

	flags := cmd.Flags()
	flags.StringP("format", "f", formatJSON, "Output format (json|yaml|openapi3)")
	flags.StringP("out", "o", "", "Write to a file instead of stdout")

	return cmd
}

// renderSpec builds the service routes without listening and encodes their
// API description.
func renderSpec(cfg *config.Config, format string) ([]byte, error) {
	srv, err := server.New(cfg, users.NewStore(), cfg.Log.NewLogger())
	if err != nil {
		return nil, err
	}
	doc := srv.Document()

	switch format {
	case formatYAML:
		return swagger.MarshalYAML(doc)
	case formatOpenAPI3:
		v3, err := swagger.ToOpenAPI3(doc)
		if err != nil {
			return nil, err
		}
		data, err := json.MarshalIndent(v3, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encode openapi3: %w", err)
		}
		return data, nil
	default:
		return swagger.MarshalJSON(doc)
	}
}

func writeAll(w io.Writer, data []byte) error {
	if _, err := w.Write(data); err != nil {
		return err
	}
	if len(data) > 0 && data[len(data)-1] != '\n' {
		_, err := io.WriteString(w, "\n")
		return err
	}
	return nil
}
