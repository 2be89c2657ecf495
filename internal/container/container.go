package container

import (
	"fmt"

	"github.com/jmoiron/sqlx"

	"brandintel/adapters/llm"
	"brandintel/adapters/postgres"
	"brandintel/adapters/sources"
	"brandintel/ai"
	"brandintel/app"
	"brandintel/internal/config"
	"brandintel/ports"
)

// Container holds all application dependencies and manages their wiring
type Container struct {
	Config *config.Config

	// Infrastructure
	DB *sqlx.DB

	// Data access
	StudyRepo ports.StudyRepository

	// External providers
	Adapters []ports.SourceAdapter
	LLM      ports.LLMClient

	// Services
	Consolidator *ai.Consolidator
	Collection   *app.CollectionService
	Synthesis    *app.SynthesisService
}

// New creates a new dependency container
func New(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	return &Container{Config: cfg}, nil
}

// InitWithDatabase initializes all components that require database access
func (c *Container) InitWithDatabase(db *sqlx.DB) error {
	if db == nil {
		return fmt.Errorf("database connection cannot be nil")
	}
	if err := db.Ping(); err != nil {
		return fmt.Errorf("database connection test failed: %w", err)
	}
	c.DB = db
	c.StudyRepo = postgres.NewStudyRepository(db)
	return c.initServices()
}

func (c *Container) initServices() error {
	c.Adapters = sources.New(c.Config.Sources, c.Config.Collector.PaceInterval)

	client, err := llm.NewClient(llm.Config{
		APIKey:      c.Config.AI.OpenAIKey,
		Timeout:     c.Config.AI.Timeout,
		Temperature: c.Config.AI.Temperature,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize LLM client: %w", err)
	}
	c.LLM = client

	c.Consolidator = ai.NewConsolidator(c.LLM, c.Config.AI.OpenAIModel, c.Config.AI.MaxTokens)
	c.Collection = app.NewCollectionService(c.StudyRepo, c.Adapters, c.Config.Collector.SourceTimeout)
	c.Synthesis = app.NewSynthesisService(c.StudyRepo, c.Consolidator)
	return nil
}
