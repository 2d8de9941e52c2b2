package classify

import (
	"bufio"
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"sync"

	"github.com/ayusman/mudra/internal/preprocess"
)

// Model names understood by the classifier service.
const (
	ModelPrimary = "primary"
	ModelDRU     = "dru"
	ModelTKDI    = "tkdi"
	ModelMNS     = "mns"
)

// ModelPaths locates one model's architecture and weight artifacts on disk.
type ModelPaths struct {
	Arch    string
	Weights string
}

// DefaultModelPaths returns the artifact layout under a models directory,
// using the filenames the models were exported with.
func DefaultModelPaths(dir string) map[string]ModelPaths {
	return map[string]ModelPaths{
		ModelPrimary: {Arch: filepath.Join(dir, "model_new.json"), Weights: filepath.Join(dir, "model_new.h5")},
		ModelDRU:     {Arch: filepath.Join(dir, "model-bw_dru.json"), Weights: filepath.Join(dir, "model-bw_dru.h5")},
		ModelTKDI:    {Arch: filepath.Join(dir, "model-bw_tkdi.json"), Weights: filepath.Join(dir, "model-bw_tkdi.h5")},
		ModelMNS:     {Arch: filepath.Join(dir, "model-bw_smn.json"), Weights: filepath.Join(dir, "model-bw_smn.h5")},
	}
}

// Config holds configuration for the Keras classifier service.
type Config struct {
	// ScriptPath is the classifier service script. When empty, common
	// locations are searched.
	ScriptPath string

	// PythonPath is the Python interpreter. When empty, a virtual
	// environment interpreter is searched for, falling back to python3.
	PythonPath string

	// Models maps model names to their artifacts. All four models are
	// required.
	Models map[string]ModelPaths
}

// Service runs the Python subprocess that owns the Keras model artifacts and
// serves predictions for all four classifiers over stdin/stdout. A missing
// artifact or a failed handshake is fatal at construction; no prediction is
// served until every model has loaded.
type Service struct {
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stdout *bufio.Reader
	mu     sync.Mutex
	closed bool
}

// NewService verifies the model artifacts, starts the classifier subprocess
// and waits for it to report that all models are loaded.
func NewService(cfg Config) (*Service, error) {
	required := []string{ModelPrimary, ModelDRU, ModelTKDI, ModelMNS}
	for _, name := range required {
		paths, ok := cfg.Models[name]
		if !ok {
			return nil, fmt.Errorf("model %s: no artifacts configured", name)
		}
		for _, p := range []string{paths.Arch, paths.Weights} {
			if _, err := os.Stat(p); err != nil {
				return nil, fmt.Errorf("model %s: %w", name, err)
			}
		}
	}

	scriptPath := cfg.ScriptPath
	if scriptPath == "" {
		scriptPath = findServiceScript()
	}
	if scriptPath == "" {
		return nil, fmt.Errorf("classifier_service.py not found")
	}

	pythonPath := cfg.PythonPath
	if pythonPath == "" {
		pythonPath = findVenvPython()
	}
	if pythonPath == "" {
		pythonPath = "python3"
	}

	args := append([]string{scriptPath}, modelArgs(cfg.Models)...)

	cmd := exec.Command(pythonPath, args...)
	cmd.Stderr = os.Stderr

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("create stdin pipe: %w", err)
	}

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("create stdout pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start classifier service: %w", err)
	}

	s := &Service{
		cmd:    cmd,
		stdin:  stdin,
		stdout: bufio.NewReader(stdout),
	}

	// The service prints a ready line once every model has loaded.
	line, err := s.stdout.ReadString('\n')
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("classifier service handshake: %w", err)
	}

	var ready struct {
		Ready  bool     `json:"ready"`
		Models []string `json:"models"`
		Error  string   `json:"error"`
	}
	if err := json.Unmarshal([]byte(line), &ready); err != nil {
		s.Close()
		return nil, fmt.Errorf("parse handshake: %w", err)
	}
	if !ready.Ready {
		s.Close()
		return nil, fmt.Errorf("classifier service failed to load models: %s", ready.Error)
	}
	if len(ready.Models) != len(required) {
		s.Close()
		return nil, fmt.Errorf("classifier service loaded %d models, want %d", len(ready.Models), len(required))
	}

	return s, nil
}

// modelArgs lays out the model artifacts as name/arch/weights argv
// triples. Paths stay as their own arguments so no character inside
// them needs escaping.
func modelArgs(models map[string]ModelPaths) []string {
	args := make([]string, 0, 3*len(models))
	for _, name := range []string{ModelPrimary, ModelDRU, ModelTKDI, ModelMNS} {
		paths := models[name]
		args = append(args, name, paths.Arch, paths.Weights)
	}
	return args
}

// Predictor returns a Predictor bound to one of the service's models.
func (s *Service) Predictor(model string) Predictor {
	return &remotePredictor{svc: s, model: model}
}

// Close shuts down the subprocess.
func (s *Service) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true

	if s.stdin != nil {
		s.stdin.Close()
	}
	return s.cmd.Wait()
}

type predictRequest struct {
	Model  string `json:"model"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Mask   string `json:"mask"`
}

type predictResponse struct {
	Scores map[string]float64 `json:"scores"`
	Error  string             `json:"error"`
}

// predict sends a mask to the subprocess and reads back the scores.
// Requests are serialized; the protocol is a 4-byte big-endian length
// followed by a JSON payload, answered with a single JSON line.
func (s *Service) predict(model string, t *preprocess.Tensor) (Scores, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, fmt.Errorf("classifier service is closed")
	}

	req := predictRequest{
		Model:  model,
		Width:  t.Width,
		Height: t.Height,
		Mask:   base64.StdEncoding.EncodeToString(t.Pixels),
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	length := make([]byte, 4)
	binary.BigEndian.PutUint32(length, uint32(len(payload)))

	if _, err := s.stdin.Write(length); err != nil {
		return nil, fmt.Errorf("write length: %w", err)
	}
	if _, err := s.stdin.Write(payload); err != nil {
		return nil, fmt.Errorf("write payload: %w", err)
	}

	line, err := s.stdout.ReadString('\n')
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var resp predictResponse
	if err := json.Unmarshal([]byte(line), &resp); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}
	if resp.Error != "" {
		return nil, fmt.Errorf("model %s: %s", model, resp.Error)
	}

	return Scores(resp.Scores), nil
}

// remotePredictor binds one model name to the shared subprocess.
type remotePredictor struct {
	svc   *Service
	model string
}

func (p *remotePredictor) Predict(t *preprocess.Tensor) (Scores, error) {
	return p.svc.predict(p.model, t)
}

// Close is a no-op; the shared Service owns the subprocess.
func (p *remotePredictor) Close() error {
	return nil
}

// findServiceScript searches common locations for classifier_service.py.
func findServiceScript() string {
	execPath, err := os.Executable()
	var execDir string
	if err == nil {
		execDir = filepath.Dir(execPath)
	}

	candidates := []string{
		"scripts/classifier_service.py",
		"../scripts/classifier_service.py",
		filepath.Join(execDir, "scripts/classifier_service.py"),
		filepath.Join(os.Getenv("HOME"), ".mudra/scripts/classifier_service.py"),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			absPath, err := filepath.Abs(path)
			if err == nil {
				return absPath
			}
			return path
		}
	}
	return ""
}

// findVenvPython looks for a Python interpreter in a virtual environment.
func findVenvPython() string {
	execPath, err := os.Executable()
	if err != nil {
		return ""
	}
	execDir := filepath.Dir(execPath)

	candidates := []string{
		"venv/bin/python",
		"../venv/bin/python",
		filepath.Join(execDir, "venv/bin/python"),
		filepath.Join(os.Getenv("HOME"), ".mudra/venv/bin/python"),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			absPath, err := filepath.Abs(path)
			if err == nil {
				return absPath
			}
			return path
		}
	}
	return ""
}
