package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var (
	version = "dev"

	serverURL string
	limit     int
	rawJSON   bool
)

type searchRequest struct {
	Query string `json:"query"`
	Limit int    `json:"limit,omitempty"`
}

type searchResult struct {
	ID          string  `json:"id"`
	Content     string  `json:"content"`
	Score       float32 `json:"score"`
	RerankScore float32 `json:"rerank_score"`
	Provenance  string  `json:"provenance"`
	Title       string  `json:"title"`
	URL         string  `json:"url"`
}

type sourceRef struct {
	Index        int    `json:"index"`
	Title        string `json:"title"`
	URL          string `json:"url"`
	SourceDomain string `json:"source_domain"`
	PublishedAt  string `json:"published_at"`
}

type searchResponse struct {
	Results []searchResult `json:"results"`
	Context string         `json:"context"`
	Sources []sourceRef    `json:"sources"`
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:     "searchctl",
	Short:   "Query the news retrieval service",
	Version: version,
}

var queryCmd = &cobra.Command{
	Use:   "query <text>",
	Short: "Run a hybrid search for the given query text",
	Long: `Run a hybrid search for the given query text.

Examples:
  # Search with defaults
  searchctl query "interest rate decision"

  # Cap the result count
  searchctl query "chip export controls" --limit 3

  # Print the raw JSON response
  searchctl query "election polls" --json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runQuery,
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check service health",
	RunE:  runHealth,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "service URL (defaults to $RETRIEVER_URL or http://localhost:9020)")

	queryCmd.Flags().IntVar(&limit, "limit", 0, "maximum passages to return (0 uses the server default)")
	queryCmd.Flags().BoolVar(&rawJSON, "json", false, "print the raw JSON response")

	rootCmd.AddCommand(queryCmd)
	rootCmd.AddCommand(healthCmd)
}

func resolveServerURL() string {
	if serverURL != "" {
		return strings.TrimRight(serverURL, "/")
	}
	if env := os.Getenv("RETRIEVER_URL"); env != "" {
		return strings.TrimRight(env, "/")
	}
	return "http://localhost:9020"
}

func runQuery(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")

	reqBody, err := json.Marshal(searchRequest{Query: query, Limit: limit})
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	client := &http.Client{Timeout: 60 * time.Second}
	resp, err := client.Post(resolveServerURL()+"/v1/search", "application/json", bytes.NewReader(reqBody))
	if err != nil {
		return fmt.Errorf("call search endpoint: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("search returned %d: %s", resp.StatusCode, string(body))
	}

	if rawJSON {
		fmt.Println(string(body))
		return nil
	}

	var result searchResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	fmt.Println(result.Context)

	if len(result.Sources) > 0 {
		fmt.Println()
		fmt.Println("Sources:")
		for _, s := range result.Sources {
			line := fmt.Sprintf("  [%d] %s", s.Index, s.Title)
			if s.URL != "" {
				line += " " + s.URL
			}
			fmt.Println(line)
		}
	}

	return nil
}

func runHealth(cmd *cobra.Command, args []string) error {
	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Get(resolveServerURL() + "/v1/healthz")
	if err != nil {
		return fmt.Errorf("call health endpoint: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	fmt.Println(string(body))
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("service degraded (status %d)", resp.StatusCode)
	}
	return nil
}
