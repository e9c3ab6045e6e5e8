package gateway

import (
	"context"
	"net/http"

	"github.com/tably-ai/tably-cli/pkg/models"
)

// StartProcessing uploads a file bundle and begins onboarding.
func (c *Client) StartProcessing(ctx context.Context, token string, files []UploadFile) (*models.StartProcessingResult, error) {
	var out models.StartProcessingResult
	if err := c.doMultipart(ctx, "/onboarding/process/start", token, files, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ProcessingStatus fetches the current pipeline snapshot.
func (c *Client) ProcessingStatus(ctx context.Context, token string) (*models.ProcessingState, error) {
	var out models.ProcessingState
	if err := c.doJSON(ctx, http.MethodGet, "/onboarding/process/status", token, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type confirmModelRequest struct {
	Accept        bool                       `json:"accept"`
	Modifications *models.ModelModifications `json:"modifications,omitempty"`
}

// ConfirmModel accepts or rejects the proposed model, optionally with edits.
func (c *Client) ConfirmModel(ctx context.Context, token string, accept bool, mods *models.ModelModifications) (*models.ConfirmModelResult, error) {
	var out models.ConfirmModelResult
	req := confirmModelRequest{Accept: accept, Modifications: mods}
	if err := c.doJSON(ctx, http.MethodPost, "/onboarding/process/confirm", token, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ReadyStatus fetches the onboarding readiness report.
func (c *Client) ReadyStatus(ctx context.Context, token string) (*models.ReadyStatus, error) {
	var out models.ReadyStatus
	if err := c.doJSON(ctx, http.MethodGet, "/onboarding/ready", token, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ClarificationQuestions fetches the pending clarification payload.
func (c *Client) ClarificationQuestions(ctx context.Context, token string) (*models.ClarificationState, error) {
	var out models.ClarificationState
	if err := c.doJSON(ctx, http.MethodGet, "/onboarding/clarification/questions", token, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type submitClarificationRequest struct {
	Answers []models.ClarificationAnswer `json:"answers"`
}

// SubmitClarification sends answered clarification questions.
func (c *Client) SubmitClarification(ctx context.Context, token string, answers []models.ClarificationAnswer) (*models.ClarificationSubmitResult, error) {
	var out models.ClarificationSubmitResult
	req := submitClarificationRequest{Answers: answers}
	if err := c.doJSON(ctx, http.MethodPost, "/onboarding/clarification/submit", token, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SkipClarification tells the backend to continue without answers.
func (c *Client) SkipClarification(ctx context.Context, token string) (*models.ClarificationSkipResult, error) {
	var out models.ClarificationSkipResult
	if err := c.doJSON(ctx, http.MethodPost, "/onboarding/clarification/skip", token, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RecalculateQuality asks the backend to re-score schema quality.
func (c *Client) RecalculateQuality(ctx context.Context, token string) (*models.QualityReport, error) {
	var out models.QualityReport
	if err := c.doJSON(ctx, http.MethodPost, "/onboarding/recalculate-quality", token, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
