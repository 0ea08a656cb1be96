package apisessionv1

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"

	json "github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"

	"github.com/fulldump/inmemdb/command"
	"github.com/fulldump/inmemdb/engine"
)

type execRequest struct {
	Command string `json:"command"`
}

type execResponse struct {
	Command string `json:"command"`
	Output  string `json:"output"`
}

// exec runs a stream of textual commands, one JSON object per command, and
// streams back one result object per command. END terminates the session.
//
// how to try with curl:
// curl -X POST -T. http://localhost:8080/v1/sessions/my-session:exec
// and type {"command":"SET a 10"}
func exec(ctx context.Context, w http.ResponseWriter, r *http.Request) error {

	s := GetServicer(ctx)
	session, err := lookupSession(ctx)
	if err != nil {
		return err
	}

	// Results are written while the body is still being read.
	wc := http.NewResponseController(w)
	if err := wc.EnableFullDuplex(); err != nil {
		log.Println("exec: full duplex not available:", err.Error())
	}

	w.Header().Set("Content-Type", "application/x-ndjson")
	w.Header().Set("X-Content-Type-Options", "nosniff")

	decoder := jsontext.NewDecoder(r.Body)
	written := false

	send := func(result *execResponse) error {
		payload, err := json.Marshal(result)
		if err != nil {
			return fmt.Errorf("encode result: %w", err)
		}
		_, err = w.Write(append(payload, '\n'))
		if err != nil {
			return err
		}
		written = true
		wc.Flush()
		return nil
	}

	// fail reports err through the stream once results have been sent,
	// the status line cannot change anymore.
	fail := func(cmd string, err error) error {
		if !written {
			return err
		}
		return send(&execResponse{
			Command: cmd,
			Output:  "ERROR: " + err.Error(),
		})
	}

	for {
		value, err := decoder.ReadValue()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fail("", fmt.Errorf("read command: %w", err))
		}

		item := &execRequest{}
		err = json.Unmarshal(value, item)
		if err != nil {
			return fail("", fmt.Errorf("decode command: %w", err))
		}

		var output string
		var kind command.Kind
		err = session.Do(func(e *engine.Engine) error {
			output, kind = command.Run(e, item.Command)
			return nil
		})
		if err != nil {
			return fail(item.Command, err)
		}

		err = send(&execResponse{
			Command: item.Command,
			Output:  output,
		})
		if err != nil {
			return err
		}

		if kind == command.KindEnd {
			_, err := s.EndSession(session.ID)
			return err
		}
	}
}
