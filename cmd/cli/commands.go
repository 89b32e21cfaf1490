package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/spf13/cobra"
)

var httpClient = &http.Client{Timeout: 30 * time.Second}

var groupID int

func init() {
	standingsCmd.Flags().IntVar(&groupID, "group", 0, "Restrict the table to one group")

	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(metricsCmd)
	rootCmd.AddCommand(standingsCmd)
	rootCmd.AddCommand(classificationCmd)
	rootCmd.AddCommand(bracketStatusCmd)
	rootCmd.AddCommand(generateBracketCmd)
	rootCmd.AddCommand(fixturesCmd)
	rootCmd.AddCommand(publishCmd)
	rootCmd.AddCommand(unpublishCmd)
	rootCmd.AddCommand(matchCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(scoreCmd)
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the health of the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(cmd.OutOrStdout(), http.MethodGet, "/health", nil)
	},
}

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Get application metrics",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(cmd.OutOrStdout(), http.MethodGet, "/metrics", nil)
	},
}

var standingsCmd = &cobra.Command{
	Use:   "standings <tournament-id>",
	Short: "Show the standings table of a tournament",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		endpoint, err := tournamentPath(args[0], "/standings")
		if err != nil {
			return err
		}
		if groupID > 0 {
			endpoint += "?group_id=" + strconv.Itoa(groupID)
		}
		return performRequest(cmd.OutOrStdout(), http.MethodGet, endpoint, nil)
	},
}

var classificationCmd = tournamentCommand("classification", "Show which teams qualify for the knockout stage", http.MethodGet, "/classification")
var bracketStatusCmd = tournamentCommand("bracket-status", "Check whether the group stage is complete", http.MethodGet, "/bracket/status")
var generateBracketCmd = tournamentCommand("generate-bracket", "Create the first knockout round", http.MethodPost, "/bracket")
var fixturesCmd = tournamentCommand("fixtures", "Create the round-robin group stage fixtures", http.MethodPost, "/fixtures")
var publishCmd = tournamentCommand("publish", "Upload a standings snapshot to object storage", http.MethodPost, "/standings/publish")
var unpublishCmd = tournamentCommand("unpublish", "Remove the published standings snapshot", http.MethodDelete, "/standings/publish")

func tournamentCommand(use, short, method, suffix string) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <tournament-id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			endpoint, err := tournamentPath(args[0], suffix)
			if err != nil {
				return err
			}
			return performRequest(cmd.OutOrStdout(), method, endpoint, nil)
		},
	}
}

var matchCmd = &cobra.Command{
	Use:   "match <match-id>",
	Short: "Show a match with its teams",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		return performRequest(cmd.OutOrStdout(), http.MethodGet, fmt.Sprintf("/matches/%d", id), nil)
	},
}

var statusCmd = &cobra.Command{
	Use:   "status <match-id> <SCHEDULED|COMPLETED|POSTPONED>",
	Short: "Move a match to another state",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		body := map[string]string{"status": args[1]}
		return performRequest(cmd.OutOrStdout(), http.MethodPatch, fmt.Sprintf("/matches/%d/status", id), body)
	},
}

var scoreCmd = &cobra.Command{
	Use:   "score <match-id> <team-a-id> <score-a> <team-b-id> <score-b>",
	Short: "Record the result of a match",
	Args:  cobra.ExactArgs(5),
	RunE: func(cmd *cobra.Command, args []string) error {
		nums := make([]int, len(args))
		for i, a := range args {
			n, err := strconv.Atoi(a)
			if err != nil {
				return fmt.Errorf("argument %q is not a number", a)
			}
			nums[i] = n
		}
		body := map[string]interface{}{
			"scores": []map[string]int{
				{"team_id": nums[1], "score": nums[2]},
				{"team_id": nums[3], "score": nums[4]},
			},
		}
		return performRequest(cmd.OutOrStdout(), http.MethodPut, fmt.Sprintf("/matches/%d/score", nums[0]), body)
	},
}

func parseID(raw string) (int, error) {
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return id, nil
}

func tournamentPath(raw, suffix string) (string, error) {
	id, err := parseID(raw)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("/tournaments/%d%s", id, suffix), nil
}

func performRequest(out io.Writer, method, endpoint string, body interface{}) error {
	url := host + endpoint
	fmt.Fprintf(out, "Making %s request to %s\n", method, url)

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	fmt.Fprintf(out, "Status Code: %d\n", resp.StatusCode)
	fmt.Fprintln(out, "Response Body:")
	fmt.Fprintln(out, string(respBody))

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("server answered %s", resp.Status)
	}
	return nil
}
