// Command imapparse is a demo driver over the grammar packages: it reads
// one already-literal-substituted input (a command line, an RFC 5322
// address-list, an RFC 5322 date-time, or an RFC 2047 encoded-word),
// parses it, and prints the result as JSON. Useful for fuzzing and
// manual grammar exploration.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	imap "github.com/meszmate/imapgram"
	"github.com/meszmate/imapgram/rfc2047"
	"github.com/meszmate/imapgram/rfc5322"
)

var (
	cfgFile   string
	delimiter string
	logger    *slog.Logger
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "imapparse",
	Short: "Parse IMAP4rev1 wire grammar input and print the result as JSON",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger = slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	},
}

var commandCmd = &cobra.Command{
	Use:   "command [file]",
	Short: "Parse one IMAP client command line",
	Long: `Parse one IMAP client command line (literals already inlined, per
the "{N}CRLF<N bytes>" contract) and print its ParseResult as JSON.
Reads from stdin when no file is given.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		input, err := readInput(args)
		if err != nil {
			return err
		}
		if len(delimiter) != 1 {
			return fmt.Errorf("imapparse: --delimiter must be exactly one byte")
		}

		limits, err := loadLimits(cfgFile)
		if err != nil {
			return err
		}
		p := &imap.Parser{Limits: limits}

		logger.Info("parse", "bytes", len(input), "delimiter", delimiter)
		result := p.Parse(input, delimiter[0])
		if result.Error != "" {
			logger.Warn("parse failed", "tag", result.Tag, "error", result.Error)
		}
		return printJSON(result)
	},
}

var addressCmd = &cobra.Command{
	Use:   "address [file]",
	Short: "Parse an RFC 5322 address-list header value",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		input, err := readInput(args)
		if err != nil {
			return err
		}
		addrs, err := rfc5322.ParseAddressList(string(input))
		if err != nil {
			logger.Warn("address parse failed", "error", err.Error())
			return printJSON(map[string]string{"error": err.Error()})
		}
		return printJSON(addrs)
	},
}

var dateCmd = &cobra.Command{
	Use:   "date [file]",
	Short: "Parse an RFC 5322 date-time header value",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		input, err := readInput(args)
		if err != nil {
			return err
		}
		dt, err := rfc5322.ParseDateTime(string(input), time.Now().Year())
		if err != nil {
			logger.Warn("date parse failed", "error", err.Error())
			return printJSON(map[string]string{"error": err.Error()})
		}
		return printJSON(dt)
	},
}

var decodeHeaderCmd = &cobra.Command{
	Use:   "decode-header [file]",
	Short: "Decode a run of adjacent RFC 2047 encoded-words",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		input, err := readInput(args)
		if err != nil {
			return err
		}
		decoded, err := rfc2047.Decode(string(input))
		if err != nil {
			logger.Warn("decode failed", "error", err.Error())
			return printJSON(map[string]string{"error": err.Error()})
		}
		return printJSON(map[string]string{"decoded": decoded})
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "optional YAML config file for parser limits")
	commandCmd.Flags().StringVarP(&delimiter, "delimiter", "d", "/", "mailbox-hierarchy delimiter for INBOX-prefix detection")

	rootCmd.AddCommand(commandCmd)
	rootCmd.AddCommand(addressCmd)
	rootCmd.AddCommand(dateCmd)
	rootCmd.AddCommand(decodeHeaderCmd)
}

func readInput(args []string) ([]byte, error) {
	if len(args) == 1 {
		return os.ReadFile(args[0])
	}
	return io.ReadAll(os.Stdin)
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
