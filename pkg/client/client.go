package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Client is a struct for communicating with the calc daemon
type Client struct {
	socketPath string
	httpClient *http.Client
}

// NewClient is a constructor for creating a new Client
func NewClient(socketPath string) *Client {
	return &Client{
		socketPath: socketPath,
		httpClient: &http.Client{
			Transport: &http.Transport{
				DialContext: func(_ context.Context, _, _ string) (net.Conn, error) {
					conn, err := net.Dial("unix", socketPath)
					if err != nil {
						// net.OpError hides the errno from os.IsNotExist.
						if errors.Is(err, os.ErrNotExist) {
							return nil, ErrDaemonNotRunning
						}
						if errors.Is(err, os.ErrPermission) {
							return nil, ErrPermissionDenied
						}
						logrus.Errorf("failed to connect to unix socket: %v", err)
						return nil, err
					}
					return conn, err
				},
			},
		},
	}
}

// Send is a method for sending a request to the calc daemon
func (c *Client) Send(method string, path string, data string) (string, error) {
	logrus.WithFields(logrus.Fields{
		"method": method,
		"path":   path,
		"data":   data,
		"unix":   c.socketPath,
	}).Debug("sending request")

	url := "http://unix" + path

	var body io.Reader
	if data != "" {
		body = strings.NewReader(data)
	}

	req, err := http.NewRequest(method, url, body)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}

	defer func() {
		if err := resp.Body.Close(); err != nil {
			logrus.Errorf("failed to close response body: %v", err)
		}
	}()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}
	respBody := string(b)

	if resp.StatusCode == http.StatusNotFound {
		return "", fmt.Errorf("%w: %s", ErrNotFound, respBody)
	}
	if resp.StatusCode == http.StatusBadRequest {
		return "", fmt.Errorf("%w: %s", ErrBadRequest, respBody)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("got %d: %s", resp.StatusCode, respBody)
	}

	return respBody, nil
}

// Get is a method for sending a GET request to the calc daemon
func (c *Client) Get(path string) (string, error) {
	return c.Send(http.MethodGet, path, "")
}

// Put is a method for sending a PUT request to the calc daemon
func (c *Client) Put(path string, data string) (string, error) {
	return c.Send(http.MethodPut, path, data)
}

// Post is a method for sending a POST request to the calc daemon
func (c *Client) Post(path string, data string) (string, error) {
	return c.Send(http.MethodPost, path, data)
}
