package dto

import (
	appErrors "github.com/michaelkatsweb/Heronix-Application-sub012/pkg/errors"
)

// GenerationMode selects how a timetable is produced.
type GenerationMode string

const (
	GenerationModeManual         GenerationMode = "MANUAL"
	GenerationModeAIAssisted     GenerationMode = "AI_ASSISTED"
	GenerationModeFullyAutomated GenerationMode = "FULLY_AUTOMATED"
)

// ModeInfo carries presentation metadata for a generation mode. It lives in
// a lookup table so the mode values stay plain identifiers.
type ModeInfo struct {
	DisplayName string `json:"display_name"`
	Description string `json:"description"`
}

var generationModeInfo = map[GenerationMode]ModeInfo{
	GenerationModeManual: {
		DisplayName: "Manual",
		Description: "Operators place every section by hand; the optimizer is not involved.",
	},
	GenerationModeAIAssisted: {
		DisplayName: "AI-assisted",
		Description: "The optimizer proposes a timetable that operators review before it goes live.",
	},
	GenerationModeFullyAutomated: {
		DisplayName: "Fully automated",
		Description: "The optimizer result is imported as the authoritative schedule without review.",
	},
}

// AllGenerationModes returns the supported modes in a stable order.
func AllGenerationModes() []GenerationMode {
	return []GenerationMode{GenerationModeManual, GenerationModeAIAssisted, GenerationModeFullyAutomated}
}

// Valid reports whether the mode is one of the supported values.
func (m GenerationMode) Valid() bool {
	_, ok := generationModeInfo[m]
	return ok
}

// RequiresOptimizer reports whether the mode depends on optimizer health.
func (m GenerationMode) RequiresOptimizer() bool {
	return m == GenerationModeAIAssisted || m == GenerationModeFullyAutomated
}

// Info returns the presentation metadata for the mode.
func (m GenerationMode) Info() ModeInfo {
	return generationModeInfo[m]
}

// ModeAvailability reports whether one generation mode is currently usable.
// Computed fresh per request; never cached across a workflow run.
type ModeAvailability struct {
	Mode        GenerationMode `json:"mode"`
	DisplayName string         `json:"display_name"`
	Description string         `json:"description"`
	Available   bool           `json:"available"`
	Reason      string         `json:"reason,omitempty"`
}

// OptimizationMode tunes how the optimizer spends its time budget.
type OptimizationMode string

const (
	OptimizationModeFast     OptimizationMode = "FAST"
	OptimizationModeBalanced OptimizationMode = "BALANCED"
	OptimizationModeThorough OptimizationMode = "THOROUGH"
)

// Valid reports whether the optimization mode is supported.
func (m OptimizationMode) Valid() bool {
	switch m {
	case OptimizationModeFast, OptimizationModeBalanced, OptimizationModeThorough:
		return true
	}
	return false
}

// DefaultOptimizationTimeSeconds is applied when the caller omits a budget.
const DefaultOptimizationTimeSeconds = 120

// ScheduleGenerationRequest is an immutable, validated generation order.
// Construct via NewScheduleGenerationRequest.
type ScheduleGenerationRequest struct {
	ScheduleID              string           `json:"schedule_id"`
	Mode                    GenerationMode   `json:"mode"`
	OptimizationTimeSeconds int              `json:"optimization_time_seconds"`
	OptimizationMode        OptimizationMode `json:"optimization_mode"`
}

// NewScheduleGenerationRequest validates inputs and applies defaults.
// A nil timeSeconds means "use the default"; an explicit zero or negative
// value is rejected before anything reaches the optimizer.
func NewScheduleGenerationRequest(scheduleID string, mode GenerationMode, timeSeconds *int, optMode OptimizationMode) (ScheduleGenerationRequest, error) {
	if scheduleID == "" {
		return ScheduleGenerationRequest{}, appErrors.Clone(appErrors.ErrValidation, "scheduleId is required")
	}
	if !mode.Valid() {
		return ScheduleGenerationRequest{}, appErrors.Clone(appErrors.ErrValidation, "unknown generation mode")
	}
	if mode == GenerationModeManual {
		return ScheduleGenerationRequest{}, appErrors.Clone(appErrors.ErrValidation, "manual mode does not use the optimizer")
	}

	budget := DefaultOptimizationTimeSeconds
	if timeSeconds != nil {
		if *timeSeconds <= 0 {
			return ScheduleGenerationRequest{}, appErrors.Clone(appErrors.ErrValidation, "optimizationTimeSeconds must be positive")
		}
		budget = *timeSeconds
	}

	if optMode == "" {
		optMode = OptimizationModeBalanced
	}
	if !optMode.Valid() {
		return ScheduleGenerationRequest{}, appErrors.Clone(appErrors.ErrValidation, "unknown optimization mode")
	}

	return ScheduleGenerationRequest{
		ScheduleID:              scheduleID,
		Mode:                    mode,
		OptimizationTimeSeconds: budget,
		OptimizationMode:        optMode,
	}, nil
}

// GenerationRunStage names the workflow stage a run ended in.
type GenerationRunStage string

const (
	StageExport   GenerationRunStage = "EXPORT"
	StageGenerate GenerationRunStage = "GENERATE"
	StagePoll     GenerationRunStage = "POLL"
	StageImport   GenerationRunStage = "IMPORT"
)

// GenerationRunResult is the structured outcome of one orchestration run.
// A failure is never reported as success; Stage identifies where the run
// stopped and ErrorCode classifies the failure kind.
type GenerationRunResult struct {
	Success    bool               `json:"success"`
	Accepted   bool               `json:"accepted,omitempty"`
	ScheduleID string             `json:"schedule_id"`
	JobID      string             `json:"job_id,omitempty"`
	Stage      GenerationRunStage `json:"stage"`
	Status     JobState           `json:"status,omitempty"`
	Message    string             `json:"message,omitempty"`
	ErrorCode  string             `json:"error_code,omitempty"`
	Export     *ExportResult      `json:"export,omitempty"`
	Import     *ImportResult      `json:"import,omitempty"`
}
