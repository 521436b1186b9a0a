package admin

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/droplets-system/epoch/state/protocol"
)

const (
	// RunCommandPath is the endpoint admin commands are submitted to.
	RunCommandPath = "/admin/run_command"
	// ListCommandsPath lists the registered command names.
	ListCommandsPath = "/admin/commands"

	defaultMaxRequestSize = 1 << 20
	commandQueueSize      = 16
	shutdownTimeout       = 5 * time.Second
)

// RunCommandRequest is the JSON body of a run_command call.
type RunCommandRequest struct {
	CommandName string      `json:"commandName"`
	Data        interface{} `json:"data,omitempty"`
}

// RunCommandResponse is the JSON body returned by run_command.
type RunCommandResponse struct {
	Output interface{} `json:"output,omitempty"`
	Error  string      `json:"error,omitempty"`
}

type commandRequest struct {
	ctx          context.Context
	command      string
	data         interface{}
	responseChan chan<- *commandResponse
}

type commandResponse struct {
	output interface{}
	err    error
}

// CommandRunnerBootstrapper collects command handlers and validators before
// the runner is built.
type CommandRunnerBootstrapper struct {
	handlers   map[string]CommandHandler
	validators map[string]CommandValidator
}

func NewCommandRunnerBootstrapper() *CommandRunnerBootstrapper {
	return &CommandRunnerBootstrapper{
		handlers:   make(map[string]CommandHandler),
		validators: make(map[string]CommandValidator),
	}
}

// RegisterHandler registers the handler for a command. It returns false if a
// handler is already registered under that name.
func (r *CommandRunnerBootstrapper) RegisterHandler(command string, handler CommandHandler) bool {
	if _, ok := r.handlers[command]; ok {
		return false
	}
	r.handlers[command] = handler
	return true
}

// RegisterValidator registers the validator for a command. It returns false
// if a validator is already registered under that name.
func (r *CommandRunnerBootstrapper) RegisterValidator(command string, validator CommandValidator) bool {
	if _, ok := r.validators[command]; ok {
		return false
	}
	r.validators[command] = validator
	return true
}

// Bootstrap builds the runner serving the registered commands on bindAddress.
func (r *CommandRunnerBootstrapper) Bootstrap(logger zerolog.Logger, bindAddress string) *CommandRunner {
	handlers := make(map[string]CommandHandler, len(r.handlers))
	for name, handler := range r.handlers {
		handlers[name] = handler
	}
	validators := make(map[string]CommandValidator, len(r.validators))
	for name, validator := range r.validators {
		validators[name] = validator
	}

	return &CommandRunner{
		handlers:       handlers,
		validators:     validators,
		commandQ:       make(chan *commandRequest, commandQueueSize),
		bindAddress:    bindAddress,
		maxRequestSize: defaultMaxRequestSize,
		logger:         logger.With().Str("component", "admin_command_runner").Logger(),
	}
}

// CommandRunner serves admin commands over HTTP. Commands are executed one at
// a time by a single worker, in the order they were received.
type CommandRunner struct {
	handlers       map[string]CommandHandler
	validators     map[string]CommandValidator
	commandQ       chan *commandRequest
	bindAddress    string
	maxRequestSize int64
	logger         zerolog.Logger
}

// Commands returns the sorted names of all registered commands.
func (r *CommandRunner) Commands() []string {
	names := make([]string, 0, len(r.handlers))
	for name := range r.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Handler returns the HTTP handler of the runner. Requests are only answered
// while Run is active.
func (r *CommandRunner) Handler() http.Handler {
	router := mux.NewRouter()
	router.HandleFunc(RunCommandPath, r.serveRunCommand).Methods(http.MethodPost)
	router.HandleFunc(ListCommandsPath, r.serveListCommands).Methods(http.MethodGet)
	return router
}

// Run starts the command worker and the HTTP server, and blocks until ctx is
// cancelled or the server fails.
func (r *CommandRunner) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:              r.bindAddress,
		Handler:           r.Handler(),
		ReadHeaderTimeout: shutdownTimeout,
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		r.processLoop(gCtx)
		return nil
	})
	g.Go(func() error {
		r.logger.Info().Str("address", r.bindAddress).Msg("admin server started")
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("admin server failed: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		err := server.Shutdown(shutdownCtx)
		if err != nil {
			r.logger.Warn().Err(err).Msg("error shutting down admin server")
		}
		return nil
	})

	err := g.Wait()
	r.logger.Info().Msg("admin server stopped")
	return err
}

func (r *CommandRunner) processLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case command := <-r.commandQ:
			output, err := r.runCommand(command.ctx, command.command, command.data)
			command.responseChan <- &commandResponse{output: output, err: err}
		}
	}
}

func (r *CommandRunner) runCommand(ctx context.Context, command string, data interface{}) (interface{}, error) {
	log := r.logger.With().Str("command", command).Logger()
	log.Info().Interface("data", data).Msg("received new command")

	// the caller may have given up while the command was queued
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	handler, ok := r.handlers[command]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCommand, command)
	}

	req := &CommandRequest{
		Data: data,
	}

	if validator, ok := r.validators[command]; ok {
		err := validator(req)
		if err != nil {
			log.Warn().Err(err).Msg("command validation failed")
			if !IsInvalidAdminParameterError(err) {
				return nil, NewInvalidAdminReqErrorf("%v", err)
			}
			return nil, err
		}
	}

	output, err := handler(ctx, req)
	if err != nil {
		log.Error().Err(err).Msg("command failed")
		return nil, err
	}

	log.Info().Msg("command completed")
	return output, nil
}

func (r *CommandRunner) serveRunCommand(w http.ResponseWriter, req *http.Request) {
	var body RunCommandRequest
	decoder := json.NewDecoder(io.LimitReader(req.Body, r.maxRequestSize))
	decoder.DisallowUnknownFields()
	err := decoder.Decode(&body)
	if err != nil {
		writeResponse(w, http.StatusBadRequest, &RunCommandResponse{Error: fmt.Sprintf("invalid request body: %v", err)})
		return
	}
	if body.CommandName == "" {
		writeResponse(w, http.StatusBadRequest, &RunCommandResponse{Error: "commandName is required"})
		return
	}

	ctx := req.Context()
	respChan := make(chan *commandResponse, 1)
	select {
	case r.commandQ <- &commandRequest{
		ctx:          ctx,
		command:      body.CommandName,
		data:         body.Data,
		responseChan: respChan,
	}:
	case <-ctx.Done():
		writeResponse(w, http.StatusServiceUnavailable, &RunCommandResponse{Error: ctx.Err().Error()})
		return
	}

	select {
	case resp := <-respChan:
		if resp.err != nil {
			writeResponse(w, errorStatus(resp.err), &RunCommandResponse{Error: resp.err.Error()})
			return
		}
		writeResponse(w, http.StatusOK, &RunCommandResponse{Output: resp.output})
	case <-ctx.Done():
		writeResponse(w, http.StatusServiceUnavailable, &RunCommandResponse{Error: ctx.Err().Error()})
	}
}

func (r *CommandRunner) serveListCommands(w http.ResponseWriter, _ *http.Request) {
	writeResponse(w, http.StatusOK, &RunCommandResponse{Output: r.Commands()})
}

func errorStatus(err error) int {
	switch {
	case IsInvalidAdminParameterError(err):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnknownCommand):
		return http.StatusNotFound
	case protocol.IsUnauthorizedError(err):
		return http.StatusForbidden
	case protocol.IsRejection(err):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func writeResponse(w http.ResponseWriter, status int, resp *RunCommandResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}
