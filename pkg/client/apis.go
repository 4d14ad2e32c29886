package client

import (
	"encoding/json"
	"net/http"
	"net/url"

	pkgerrors "github.com/pkg/errors"

	"github.com/charlie0129/calc/pkg/calculator"
	"github.com/charlie0129/calc/pkg/config"
)

func sessionPath(session, suffix string) string {
	return "/sessions/" + url.PathEscape(session) + suffix
}

// Press sends action names (see keymap.ParseAction) to a session and
// returns the resulting display.
func (c *Client) Press(session string, actions ...string) (string, error) {
	payload, err := json.Marshal(actions)
	if err != nil {
		return "", err
	}
	ret, err := c.Post(sessionPath(session, "/actions"), string(payload))
	if err != nil {
		return "", pkgerrors.Wrapf(err, "failed to press keys")
	}
	return unquote(ret)
}

func (c *Client) Display(session string) (string, error) {
	ret, err := c.Get(sessionPath(session, "/display"))
	if err != nil {
		return "", pkgerrors.Wrapf(err, "failed to get display")
	}
	return unquote(ret)
}

func (c *Client) State(session string) (*calculator.State, error) {
	ret, err := c.Get(sessionPath(session, "/state"))
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to get calculator state")
	}

	var st calculator.State
	if err := json.Unmarshal([]byte(ret), &st); err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to unmarshal calculator state")
	}
	return &st, nil
}

// Reset drops a session; the next action on it starts from scratch.
func (c *Client) Reset(session string) (string, error) {
	return c.Send(http.MethodDelete, sessionPath(session, ""), "")
}

func (c *Client) Sessions() ([]string, error) {
	ret, err := c.Get("/sessions")
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to list sessions")
	}
	var ids []string
	if err := json.Unmarshal([]byte(ret), &ids); err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to unmarshal sessions")
	}
	return ids, nil
}

func (c *Client) GetTheme() (config.Theme, error) {
	ret, err := c.Get("/theme")
	if err != nil {
		return "", pkgerrors.Wrapf(err, "failed to get theme")
	}
	s, err := unquote(ret)
	if err != nil {
		return "", err
	}
	return config.ParseTheme(s)
}

func (c *Client) SetTheme(t config.Theme) (string, error) {
	payload, err := json.Marshal(t)
	if err != nil {
		return "", err
	}
	ret, err := c.Put("/theme", string(payload))
	if err != nil {
		return "", err
	}
	return unquote(ret)
}

func (c *Client) GetConfig() (*config.RawFileConfig, error) {
	ret, err := c.Get("/config")
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to get config")
	}

	var conf config.RawFileConfig
	if err := json.Unmarshal([]byte(ret), &conf); err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to unmarshal config")
	}

	return &conf, nil
}

func (c *Client) GetVersion() (string, error) {
	ret, err := c.Get("/version")
	if err != nil {
		return "", pkgerrors.Wrapf(err, "failed to get version")
	}
	return unquote(ret)
}

func unquote(resp string) (string, error) {
	var s string
	if err := json.Unmarshal([]byte(resp), &s); err != nil {
		return "", pkgerrors.Wrapf(err, "unexpected response: %s", resp)
	}
	return s, nil
}
