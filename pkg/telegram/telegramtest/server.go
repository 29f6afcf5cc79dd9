// Package telegramtest provides a fake Bot API server for tests.
package telegramtest

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path"
	"strconv"
	"sync"
)

// Call is one Bot API request received by the Server.
type Call struct {
	Method   string
	ChatID   int64
	Text     string
	URL      string
	FileName string
	FileData []byte
}

type Server struct {
	*httptest.Server

	mu       sync.Mutex
	calls    []Call
	failWith string
}

func NewServer() *Server {
	s := &Server{}
	s.Server = httptest.NewServer(http.HandlerFunc(s.handle))
	return s
}

// Endpoint returns the endpoint template to pass to telegram.WithAPIEndpoint.
func (s *Server) Endpoint() string {
	return s.URL + "/bot%s/%s"
}

// FailWith makes every following call answer with ok=false and the given description.
func (s *Server) FailWith(description string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failWith = description
}

func (s *Server) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Call(nil), s.calls...)
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	call := Call{
		Method: path.Base(r.URL.Path),
		Text:   r.FormValue("text"),
		URL:    r.FormValue("url"),
	}
	call.ChatID, _ = strconv.ParseInt(r.FormValue("chat_id"), 10, 64)

	if file, header, err := r.FormFile("document"); err == nil {
		call.FileName = header.Filename
		call.FileData, _ = io.ReadAll(file)
		file.Close()
	}

	s.mu.Lock()
	s.calls = append(s.calls, call)
	failWith := s.failWith
	s.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")

	if failWith != "" {
		fmt.Fprintf(w, `{"ok":false,"error_code":400,"description":%q}`, failWith)
		return
	}

	if call.Method == "getMe" {
		fmt.Fprint(w, `{"ok":true,"result":{"id":1,"is_bot":true,"first_name":"Video","username":"video_bot"}}`)
		return
	}

	if call.Method == "setWebhook" || call.Method == "deleteWebhook" {
		fmt.Fprint(w, `{"ok":true,"result":true,"description":"Webhook was set"}`)
		return
	}

	fmt.Fprintf(w, `{"ok":true,"result":{"message_id":%d,"date":0,"chat":{"id":%d,"type":"private"}}}`, len(s.Calls()), call.ChatID)
}
