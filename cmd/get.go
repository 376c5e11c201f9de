package cmd

import (
	"fmt"
	"os"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"

	"github.com/s0up4200/getjson/jsonapi"
	"github.com/s0up4200/getjson/transport"
)

var (
	codecName string
	compact   bool
)

// getCmd represents the get command
var getCmd = &cobra.Command{
	Use:   "get URL",
	Short: "GET a URL and print its JSON body",
	Long: `Issue a GET request and print the decoded JSON body.

Relative URLs resolve against client.base_url. On failure the kind of
error is printed, e.g. TIMEOUT or UNEXPECTED_MEDIA_TYPE.`,
	Args: cobra.ExactArgs(1),
	RunE: runGet,
}

func init() {
	rootCmd.AddCommand(getCmd)

	getCmd.Flags().StringVar(&codecName, "codec", "std", "JSON decoder to use (std/iter)")
	getCmd.Flags().BoolVar(&compact, "compact", false, "print compact JSON")
}

func runGet(cmd *cobra.Command, args []string) error {
	var opts []jsonapi.Option
	switch codecName {
	case "std":
		if cfg.Client.StrictDecoding {
			opts = append(opts, jsonapi.WithDecodeOptions(jsonapi.DecodeOptions{DisallowUnknownFields: true}))
		}
	case "iter":
		opts = append(opts, jsonapi.WithCodec(jsonapi.NewIterCodec(jsoniter.Config{
			EscapeHTML:             true,
			SortMapKeys:            true,
			ValidateJsonRawMessage: true,
			DisallowUnknownFields:  cfg.Client.StrictDecoding,
		})))
	default:
		return fmt.Errorf("invalid codec: %s (must be 'std' or 'iter')", codecName)
	}
	opts = append(opts, jsonapi.WithLogger(logger))

	tc, err := transport.NewClient(append(transportOptions(), transport.WithBaseURL(cfg.Client.BaseURL))...)
	if err != nil {
		return err
	}

	body, err := jsonapi.GetJSON[any](cmd.Context(), tc, args[0], opts...)
	if err != nil {
		if reqErr, ok := jsonapi.AsRequestError(err); ok {
			logger.Error().
				Str("kind", reqErr.Kind.String()).
				Str("url", reqErr.URL).
				Int("status", reqErr.StatusCode).
				Msg("Request failed")
		}
		return err
	}

	if body == nil {
		fmt.Println("null")
		return nil
	}

	api := jsoniter.ConfigCompatibleWithStandardLibrary
	var out []byte
	if compact {
		out, err = api.Marshal(*body)
	} else {
		out, err = api.MarshalIndent(*body, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("failed to format response: %w", err)
	}

	_, err = fmt.Fprintln(os.Stdout, string(out))
	return err
}
