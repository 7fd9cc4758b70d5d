package studentsqlctl

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

type Options struct {
	BaseURL    string
	APIKey     string
	Timeout    time.Duration
	HTTPClient *http.Client
	Stdout     io.Writer
	Stderr     io.Writer
}

type settings struct {
	baseURL string
	apiKey  string
	timeout time.Duration
	asJSON  bool
	noColor bool
}

// exitError carries a process exit code out of a cobra command.
type exitError struct {
	code int
	msg  string
}

func (e *exitError) Error() string { return e.msg }

func Run(ctx context.Context, args []string, defaults Options) int {
	stderr := writerOr(defaults.Stderr)
	root := NewRootCommand(defaults)
	root.SetArgs(args)
	if err := root.ExecuteContext(ctx); err != nil {
		_, _ = fmt.Fprintln(stderr, err)
		var exit *exitError
		if errors.As(err, &exit) {
			return exit.code
		}
		return 2
	}
	return 0
}

func NewRootCommand(defaults Options) *cobra.Command {
	stdout := writerOr(defaults.Stdout)
	stderr := writerOr(defaults.Stderr)
	s := &settings{}

	root := &cobra.Command{
		Use:           "studentsqlctl",
		Short:         "Ask questions about the STUDENT table in plain English",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(*cobra.Command, []string) {
			if s.noColor {
				pterm.DisableStyling()
			}
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	flags := root.PersistentFlags()
	flags.StringVar(&s.baseURL, "base-url", firstNonEmpty(defaults.BaseURL, "http://localhost:8080"), "studentsql API base URL")
	flags.StringVar(&s.apiKey, "api-key", defaults.APIKey, "API key for authenticated requests")
	flags.DurationVar(&s.timeout, "timeout", durationOr(defaults.Timeout, 60*time.Second), "HTTP timeout (e.g. 30s)")
	flags.BoolVar(&s.asJSON, "json", false, "print raw JSON instead of tables")
	flags.BoolVar(&s.noColor, "no-color", false, "disable colors and styling")

	client := func() *http.Client {
		if defaults.HTTPClient != nil {
			return defaults.HTTPClient
		}
		return &http.Client{Timeout: s.timeout}
	}

	root.AddCommand(
		&cobra.Command{
			Use:   "ask <question...>",
			Short: "Translate a question to SQL and show the results",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				payload, err := json.Marshal(map[string]string{"question": strings.Join(args, " ")})
				if err != nil {
					return err
				}
				body, err := call(cmd.Context(), client(), s, http.MethodPost, "/v1/ask", payload)
				if err != nil {
					return err
				}
				if s.asJSON {
					return printJSON(stdout, body)
				}
				var answer struct {
					SQL string `json:"sql"`
					tablePayload
				}
				if err := json.Unmarshal(body, &answer); err != nil {
					return fmt.Errorf("decode answer: %w", err)
				}
				_, _ = fmt.Fprintln(stdout, pterm.Bold.Sprint("Query to fetch data is:"))
				_, _ = fmt.Fprintln(stdout, pterm.FgLightCyan.Sprint(answer.SQL))
				_, _ = fmt.Fprintln(stdout)
				_, _ = fmt.Fprintln(stdout, pterm.Bold.Sprint("Results:"))
				return renderTable(stdout, answer.tablePayload)
			},
		},
		&cobra.Command{
			Use:   "table",
			Short: "Show the full STUDENT table",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				body, err := call(cmd.Context(), client(), s, http.MethodGet, "/v1/table", nil)
				if err != nil {
					return err
				}
				if s.asJSON {
					return printJSON(stdout, body)
				}
				var table tablePayload
				if err := json.Unmarshal(body, &table); err != nil {
					return fmt.Errorf("decode table: %w", err)
				}
				_, _ = fmt.Fprintln(stdout, pterm.Bold.Sprint("Current Database:"))
				return renderTable(stdout, table)
			},
		},
		&cobra.Command{
			Use:   "export",
			Short: "Write a Parquet snapshot of the table to object storage",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				body, err := call(cmd.Context(), client(), s, http.MethodPost, "/v1/export", nil)
				if err != nil {
					return err
				}
				return printJSON(stdout, body)
			},
		},
		&cobra.Command{
			Use:   "health",
			Short: "Check the API is up",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				body, err := call(cmd.Context(), client(), s, http.MethodGet, "/v1/health", nil)
				if err != nil {
					return err
				}
				return printJSON(stdout, body)
			},
		},
		&cobra.Command{
			Use:   "ready",
			Short: "Check the API can serve questions",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				body, err := call(cmd.Context(), client(), s, http.MethodGet, "/v1/ready", nil)
				if err != nil {
					return err
				}
				return printJSON(stdout, body)
			},
		},
	)
	return root
}

type tablePayload struct {
	Columns  []string `json:"columns"`
	Rows     [][]any  `json:"rows"`
	RowCount int      `json:"row_count"`
}

func renderTable(w io.Writer, table tablePayload) error {
	data := make(pterm.TableData, 0, len(table.Rows)+1)
	data = append(data, table.Columns)
	for _, row := range table.Rows {
		cells := make([]string, len(row))
		for i, value := range row {
			cells[i] = formatCell(value)
		}
		data = append(data, cells)
	}
	rendered, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return fmt.Errorf("render table: %w", err)
	}
	_, _ = fmt.Fprintln(w, rendered)
	_, _ = fmt.Fprintf(w, "(%d rows)\n", table.RowCount)
	return nil
}

func formatCell(value any) string {
	switch v := value.(type) {
	case nil:
		return "NULL"
	case float64:
		// JSON numbers decode as float64; whole marks print without a fraction.
		if v == float64(int64(v)) {
			return fmt.Sprintf("%d", int64(v))
		}
		return fmt.Sprint(v)
	default:
		return fmt.Sprint(v)
	}
}

func call(ctx context.Context, client *http.Client, s *settings, method, path string, payload []byte) ([]byte, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, strings.TrimRight(s.baseURL, "/")+path, body)
	if err != nil {
		return nil, &exitError{code: 1, msg: fmt.Sprintf("request failed: %v", err)}
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if key := strings.TrimSpace(s.apiKey); key != "" {
		req.Header.Set("X-API-Key", key)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, &exitError{code: 1, msg: fmt.Sprintf("request failed: %v", err)}
	}
	defer func() { _ = resp.Body.Close() }()

	responseBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &exitError{code: 1, msg: fmt.Sprintf("read response: %v", err)}
	}
	if resp.StatusCode >= 400 {
		return nil, &exitError{code: 1, msg: fmt.Sprintf("http %d: %s", resp.StatusCode, strings.TrimSpace(string(responseBody)))}
	}
	return responseBody, nil
}

func printJSON(w io.Writer, raw []byte) error {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	var formatted bytes.Buffer
	if err := json.Indent(&formatted, bytes.TrimSpace(raw), "", "  "); err != nil {
		_, _ = fmt.Fprintln(w, string(raw))
		return nil
	}
	_, _ = fmt.Fprintln(w, formatted.String())
	return nil
}

func writerOr(w io.Writer) io.Writer {
	if w == nil {
		return io.Discard
	}
	return w
}

func firstNonEmpty(a, b string) string {
	if strings.TrimSpace(a) != "" {
		return strings.TrimSpace(a)
	}
	return b
}

func durationOr(v, fallback time.Duration) time.Duration {
	if v > 0 {
		return v
	}
	return fallback
}
