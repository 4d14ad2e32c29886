package daemon

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/charlie0129/calc/pkg/config"
	"github.com/charlie0129/calc/pkg/events"
	"github.com/charlie0129/calc/pkg/keymap"
	"github.com/charlie0129/calc/pkg/version"
)

func (s *Server) getConfig(c *gin.Context) {
	fc, err := config.NewRawFileConfigFromConfig(s.conf)
	if err != nil {
		_ = c.AbortWithError(http.StatusInternalServerError, err)
		return
	}
	c.IndentedJSON(http.StatusOK, fc)
}

func (s *Server) getTheme(c *gin.Context) {
	c.IndentedJSON(http.StatusOK, s.conf.Theme())
}

func (s *Server) setTheme(c *gin.Context) {
	var name string
	if err := c.BindJSON(&name); err != nil {
		c.IndentedJSON(http.StatusBadRequest, err.Error())
		_ = c.AbortWithError(http.StatusBadRequest, err)
		return
	}

	theme, err := config.ParseTheme(name)
	if err != nil {
		c.IndentedJSON(http.StatusBadRequest, err.Error())
		_ = c.AbortWithError(http.StatusBadRequest, err)
		return
	}

	s.conf.SetTheme(theme)
	if err := s.conf.Save(); err != nil {
		logrus.Errorf("saveConfig failed: %v", err)
		c.IndentedJSON(http.StatusInternalServerError, err.Error())
		_ = c.AbortWithError(http.StatusInternalServerError, err)
		return
	}

	logrus.Infof("set theme to %s", theme)

	c.IndentedJSON(http.StatusCreated, fmt.Sprintf("theme set to %s", theme))
}

func (s *Server) listSessions(c *gin.Context) {
	c.IndentedJSON(http.StatusOK, s.sessions.IDs())
}

func (s *Server) getDisplay(c *gin.Context) {
	c.IndentedJSON(http.StatusOK, s.sessions.Get(c.Param("id")).Display())
}

func (s *Server) getState(c *gin.Context) {
	c.IndentedJSON(http.StatusOK, s.sessions.Get(c.Param("id")).State())
}

// pressActions accepts either a single action name or a list of them, e.g.
// "digit:7" or ["7", "+", "3", "Enter"], and replies with the display.
func (s *Server) pressActions(c *gin.Context) {
	names, err := decodeActionNames(c.Request.Body)
	if err != nil {
		c.IndentedJSON(http.StatusBadRequest, err.Error())
		_ = c.AbortWithError(http.StatusBadRequest, err)
		return
	}

	actions := make([]keymap.Action, 0, len(names))
	for _, name := range names {
		a, err := keymap.ParseAction(name)
		if err != nil {
			c.IndentedJSON(http.StatusBadRequest, err.Error())
			_ = c.AbortWithError(http.StatusBadRequest, err)
			return
		}
		actions = append(actions, a)
	}

	display := s.sessions.Get(c.Param("id")).Press(actions...)

	logrus.WithFields(logrus.Fields{
		"session": c.Param("id"),
		"actions": len(actions),
		"display": display,
	}).Debug("actions applied")

	c.IndentedJSON(http.StatusOK, display)
}

func (s *Server) deleteSession(c *gin.Context) {
	if !s.sessions.Delete(c.Param("id")) {
		err := fmt.Errorf("session %q not found", c.Param("id"))
		c.IndentedJSON(http.StatusNotFound, err.Error())
		_ = c.AbortWithError(http.StatusNotFound, err)
		return
	}
	c.IndentedJSON(http.StatusOK, "ok")
}

// streamEvents relays hub events as server-sent events until the client
// goes away. ?session= limits the stream to one session.
func (s *Server) streamEvents(c *gin.Context) {
	only := c.Query("session")

	ch := s.hub.Subscribe()
	defer s.hub.Unsubscribe(ch)

	// send headers right away so subscribers know they are connected
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Status(http.StatusOK)
	c.Writer.Flush()

	c.Stream(func(w io.Writer) bool {
		select {
		case <-c.Request.Context().Done():
			return false
		case ev, ok := <-ch:
			if !ok {
				return false
			}
			if only != "" && eventSession(ev) != only {
				return true
			}
			c.SSEvent(ev.Name, ev.Data)
			return true
		}
	})
}

func getVersion(c *gin.Context) {
	c.IndentedJSON(http.StatusOK, version.Version)
}

func decodeActionNames(r io.Reader) ([]string, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var many []string
	if err := json.Unmarshal(b, &many); err == nil {
		if len(many) == 0 {
			return nil, errors.New("no actions given")
		}
		return many, nil
	}

	var one string
	if err := json.Unmarshal(b, &one); err != nil {
		return nil, fmt.Errorf("body must be an action name or a list of action names: %w", err)
	}
	return []string{one}, nil
}

func eventSession(ev events.Event) string {
	var p struct {
		Session string `json:"session"`
	}
	if err := json.Unmarshal(ev.Data, &p); err != nil {
		return ""
	}
	return p.Session
}
