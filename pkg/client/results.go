package client

import (
	"context"
	"net/url"
	"strconv"
	"time"
)

// StartResult creates a new in-progress attempt for a grade.
func (c *Client) StartResult(ctx context.Context, gradeID uint) (*Result, error) {
	var result Result
	err := c.post(ctx, "/api/results", map[string]uint{"gradeId": gradeID}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// GetResult fetches one attempt, including its question snapshot.
func (c *Client) GetResult(ctx context.Context, id uint) (*Result, error) {
	var result Result
	err := c.get(ctx, "/api/results/"+strconv.FormatUint(uint64(id), 10), nil, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// FinishInput is the finish submission payload.
type FinishInput struct {
	Answers        map[uint]uint `json:"answers"`
	StartedAt      time.Time     `json:"started_at"`
	FinishedAt     time.Time     `json:"finished_at"`
	IdempotencyKey string        `json:"idempotency_key,omitempty"`
}

// FinishResult submits the answer map and returns the scored attempt.
// Finishing an already-finished attempt returns it unchanged.
func (c *Client) FinishResult(ctx context.Context, id uint, input FinishInput) (*Result, error) {
	var result Result
	err := c.post(ctx, "/api/results/"+strconv.FormatUint(uint64(id), 10)+"/finish", input, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// ListResults fetches past attempts newest-first. userID 0 means the caller's
// own attempts.
func (c *Client) ListResults(ctx context.Context, userID uint, limit, offset int) ([]Result, error) {
	query := url.Values{}
	if userID != 0 {
		query.Set("userId", strconv.FormatUint(uint64(userID), 10))
	}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}
	if offset > 0 {
		query.Set("offset", strconv.Itoa(offset))
	}

	var results []Result
	if err := c.get(ctx, "/api/results", query, &results); err != nil {
		return nil, err
	}
	return results, nil
}
