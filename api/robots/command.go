package robots

import (
	"context"
	"encoding/json"
	"net/http"
)

// Commander is the slice of the robot client the command endpoint drives.
// The app wires its event publishing command wrapper here.
type Commander interface {
	CleanStartOrContinue(ctx context.Context) error
	CleanAll(ctx context.Context) error
	Stop(ctx context.Context) error
	GoHome(ctx context.Context) error
	SetCleaningParameterSet(ctx context.Context, set int) error
	SetName(ctx context.Context, name string) error
}

// commandRequest is the body of POST /api/robots/command. Parameter is a
// pointer so a missing value can be told apart from parameter set 0.
type commandRequest struct {
	Command   string `json:"command"`
	Parameter *int   `json:"parameter,omitempty"`
	Name      string `json:"name,omitempty"`
}

type commandResponse struct {
	Command string `json:"command"`
	OK      bool   `json:"ok"`
	Error   string `json:"error,omitempty"`
}

// NewCommandHandler returns an HTTP handler accepting control commands via
// POST /api/robots/command. Command names match the robot interface:
// clean_start_or_continue, clean_all, stop, go_home,
// switch_cleaning_parameter_set and set_robot_name. Requests must include
// an Authorization header with "Bearer <token>" when token is non-empty.
func NewCommandHandler(cmd Commander, token string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		if token != "" {
			auth := r.Header.Get("Authorization")
			if auth != "Bearer "+token {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
		}
		var req commandRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "decode body: "+err.Error(), http.StatusBadRequest)
			return
		}
		var err error
		switch req.Command {
		case "clean_start_or_continue":
			err = cmd.CleanStartOrContinue(r.Context())
		case "clean_all":
			err = cmd.CleanAll(r.Context())
		case "stop":
			err = cmd.Stop(r.Context())
		case "go_home":
			err = cmd.GoHome(r.Context())
		case "switch_cleaning_parameter_set":
			if req.Parameter == nil || *req.Parameter < 0 {
				http.Error(w, "switch_cleaning_parameter_set needs a parameter >= 0", http.StatusBadRequest)
				return
			}
			err = cmd.SetCleaningParameterSet(r.Context(), *req.Parameter)
		case "set_robot_name":
			if req.Name == "" {
				http.Error(w, "set_robot_name needs a name", http.StatusBadRequest)
				return
			}
			err = cmd.SetName(r.Context(), req.Name)
		default:
			http.Error(w, "unknown command "+req.Command, http.StatusBadRequest)
			return
		}
		resp := commandResponse{Command: req.Command, OK: err == nil}
		w.Header().Set("Content-Type", "application/json")
		if err != nil {
			resp.Error = err.Error()
			w.WriteHeader(http.StatusBadGateway)
		}
		if encErr := json.NewEncoder(w).Encode(resp); encErr != nil {
			http.Error(w, encErr.Error(), http.StatusInternalServerError)
			return
		}
	})
}
