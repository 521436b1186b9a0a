package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/sethvargo/go-retry"
	"github.com/spf13/cobra"

	"github.com/droplets-system/epoch/admin"
)

var (
	flagData     string
	flagRetries  uint64
	flagAdminURL string
)

func init() {
	rootCmd.AddCommand(adminCmd)

	adminCmd.Flags().StringVar(&flagData, "data", "", "JSON data of the command")
	adminCmd.Flags().Uint64Var(&flagRetries, "retries", 5, "number of retries while the admin endpoint is unreachable")
	adminCmd.Flags().StringVar(&flagAdminURL, "admin-url", "", "base URL of the admin endpoint (default: http://<admin-addr>)")
}

var adminCmd = &cobra.Command{
	Use:   "admin <command>",
	Short: "run an admin command on a running service",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		baseURL := flagAdminURL
		if baseURL == "" {
			baseURL = "http://" + cfg.AdminAddr
		}

		var data interface{}
		if flagData != "" {
			err := json.Unmarshal([]byte(flagData), &data)
			if err != nil {
				return fmt.Errorf("--data is not valid JSON: %w", err)
			}
		}

		client := &AdminClient{
			URL:     baseURL + admin.RunCommandPath,
			Client:  &http.Client{Timeout: 30 * time.Second},
			Retries: flagRetries,
		}
		resp, err := client.RunCommand(cmd.Context(), args[0], data)
		if err != nil {
			return err
		}

		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(resp.Output)
	},
}

// AdminClient submits commands to the admin endpoint. Requests are retried
// while the endpoint is unreachable; a response from the service, including
// an error response, is never retried.
type AdminClient struct {
	URL     string
	Client  *http.Client
	Retries uint64
}

const (
	retryBase          = 200 * time.Millisecond
	retryMax           = 5 * time.Second
	retryJitterPercent = 10
)

func (c *AdminClient) backoff() (retry.Backoff, error) {
	backoff, err := retry.NewExponential(retryBase)
	if err != nil {
		return nil, fmt.Errorf("could not create backoff: %w", err)
	}
	backoff = retry.WithCappedDuration(retryMax, backoff)
	backoff = retry.WithJitterPercent(retryJitterPercent, backoff)
	return retry.WithMaxRetries(c.Retries, backoff), nil
}

// RunCommand runs the command and returns the service's response.
func (c *AdminClient) RunCommand(ctx context.Context, command string, data interface{}) (*admin.RunCommandResponse, error) {
	body, err := json.Marshal(admin.RunCommandRequest{CommandName: command, Data: data})
	if err != nil {
		return nil, fmt.Errorf("could not encode request: %w", err)
	}

	backoff, err := c.backoff()
	if err != nil {
		return nil, err
	}

	var resp admin.RunCommandResponse
	var status int
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL, bytes.NewReader(body))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/json")

		httpResp, err := c.Client.Do(req)
		if err != nil {
			return retry.RetryableError(err)
		}
		defer httpResp.Body.Close()

		status = httpResp.StatusCode
		raw, err := io.ReadAll(httpResp.Body)
		if err != nil {
			return retry.RetryableError(err)
		}
		resp = admin.RunCommandResponse{}
		err = json.Unmarshal(raw, &resp)
		if err != nil {
			return fmt.Errorf("unexpected response (status %d): %s", status, bytes.TrimSpace(raw))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("could not run command %s: %w", command, err)
	}

	if status != http.StatusOK {
		return nil, &CommandError{Status: status, Message: resp.Error}
	}
	return &resp, nil
}

// CommandError is returned when the service rejected or failed a command.
type CommandError struct {
	Status  int
	Message string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("command failed (%d %s): %s", e.Status, http.StatusText(e.Status), e.Message)
}

func IsCommandError(err error) bool {
	var cmdErr *CommandError
	return errors.As(err, &cmdErr)
}
