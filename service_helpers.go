package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
)

type sidekiqJob struct {
	Class string            `json:"class"`
	Args  []json.RawMessage `json:"args"`
	Queue string            `json:"queue"`
	JID   string            `json:"jid"`
}

// errSkipJob marks a well-formed job meant for another worker class.
var errSkipJob = errors.New("job not handled by this worker")

var handledJobClasses = map[string]bool{
	"GoWorker":   true,
	"RubyWorker": true,
}

// decodeJob extracts the test run id from a Sidekiq payload.
func decodeJob(payload string) (sidekiqJob, int64, error) {
	var job sidekiqJob
	if err := json.Unmarshal([]byte(payload), &job); err != nil {
		return job, 0, fmt.Errorf("invalid job json: %w", err)
	}
	if !handledJobClasses[job.Class] {
		return job, 0, fmt.Errorf("class %q: %w", job.Class, errSkipJob)
	}
	if len(job.Args) == 0 {
		return job, 0, errors.New("job missing test_run_id")
	}
	id, err := parseInt64(job.Args[0])
	if err != nil {
		return job, 0, fmt.Errorf("test_run_id: %w", err)
	}
	if id <= 0 {
		return job, 0, fmt.Errorf("test_run_id %d is not positive", id)
	}
	return job, id, nil
}

// parseInt64 extracts an int64 from a Sidekiq payload argument that may be encoded
// either as a JSON number or as a quoted string.
func parseInt64(raw json.RawMessage) (int64, error) {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return 0, err
	}
	switch arg := v.(type) {
	case float64:
		var n int64
		if err := json.Unmarshal(raw, &n); err != nil {
			return 0, fmt.Errorf("not an integer: %s", raw)
		}
		return n, nil
	case string:
		if arg == "" {
			return 0, errors.New("empty string")
		}
		return strconv.ParseInt(arg, 10, 64)
	default:
		return 0, fmt.Errorf("unsupported arg: %s", raw)
	}
}
