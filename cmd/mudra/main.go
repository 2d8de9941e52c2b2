package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/ayusman/mudra/internal/app"
	"github.com/ayusman/mudra/internal/classify"
	"github.com/ayusman/mudra/internal/server"
	"github.com/ayusman/mudra/internal/spell"
	"github.com/ayusman/mudra/internal/store"
)

func main() {
	fmt.Println("Mudra - Fingerspelling to Text")

	// Initialize the store
	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Fatalf("Failed to get home directory: %v", err)
	}

	dataDir := filepath.Join(homeDir, ".mudra")
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}

	dbPath := filepath.Join(dataDir, "mudra.db")
	st, err := store.New(dbPath)
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer st.Close()

	// Load the four classifiers. A missing artifact is fatal; the service
	// never becomes ready without a complete cascade.
	modelsDir := findModelsDir()
	if modelsDir == "" {
		log.Fatalf("Models directory not found")
	}
	fmt.Printf("Loading models from: %s\n", modelsDir)

	svc, err := classify.NewService(classify.Config{
		Models: classify.DefaultModelPaths(modelsDir),
	})
	if err != nil {
		log.Fatalf("Failed to load classifiers: %v", err)
	}
	defer svc.Close()

	cascade, err := classify.NewCascade(
		svc.Predictor(classify.ModelPrimary),
		classify.DefaultGroups(
			svc.Predictor(classify.ModelDRU),
			svc.Predictor(classify.ModelTKDI),
			svc.Predictor(classify.ModelMNS),
		),
	)
	if err != nil {
		log.Fatalf("Failed to build cascade: %v", err)
	}

	// Suggestions are an optional capability, resolved once here.
	var checker *spell.Checker
	if n, err := st.Dictionary().Count(); err != nil {
		log.Printf("Dictionary unavailable (%v), suggestions disabled", err)
	} else if n == 0 {
		log.Println("Dictionary is empty, suggestions disabled")
	} else {
		checker = spell.NewChecker(st)
		log.Printf("Suggestions enabled (%d dictionary words)", n)
	}

	a, err := app.New(app.Config{
		Cascade: cascade,
		Spell:   checker,
		Store:   st,
	})
	if err != nil {
		log.Fatalf("Failed to initialize app: %v", err)
	}

	// Find web directory
	webDir := findWebDir()
	if webDir != "" {
		fmt.Printf("Serving static files from: %s\n", webDir)
	}

	srv := server.New(server.Config{
		App:       a,
		StaticDir: webDir,
	})

	addr := ":5000"
	fmt.Printf("Starting server on %s\n", addr)
	if err := srv.ListenAndServe(addr); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

// findModelsDir searches for the model artifacts directory in common
// locations. It checks "Models", "../Models", and ~/.mudra/Models.
// Returns the first existing directory or empty string if none found.
func findModelsDir() string {
	relativePaths := []string{"Models", "../Models"}
	for _, p := range relativePaths {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			absPath, err := filepath.Abs(p)
			if err == nil {
				return absPath
			}
			return p
		}
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	homeModelsDir := filepath.Join(homeDir, ".mudra", "Models")
	if info, err := os.Stat(homeModelsDir); err == nil && info.IsDir() {
		return homeModelsDir
	}

	return ""
}

// findWebDir searches for the web directory in common locations.
// It checks: "web", "../web", "../../web", and ~/.mudra/web.
// Returns the first existing directory or empty string if none found.
func findWebDir() string {
	relativePaths := []string{"web", "../web", "../../web"}
	for _, p := range relativePaths {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			absPath, err := filepath.Abs(p)
			if err == nil {
				return absPath
			}
			return p
		}
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	homeWebDir := filepath.Join(homeDir, ".mudra", "web")
	if info, err := os.Stat(homeWebDir); err == nil && info.IsDir() {
		return homeWebDir
	}

	return ""
}
