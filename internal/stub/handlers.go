package stub

import (
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"github.com/jorge-barreto/quill/internal/backend"
	"github.com/jorge-barreto/quill/internal/outline"
)

func (s *Server) health(c *fiber.Ctx) error {
	return c.JSON(backend.HealthResponse{Status: "healthy"})
}

func (s *Server) startProcess(c *fiber.Ctx) error {
	var in backend.CreateProcessInput
	if err := c.BodyParser(&in); err != nil {
		return fiber.NewError(fiber.StatusUnprocessableEntity, "invalid request body")
	}
	in.Topic = strings.TrimSpace(in.Topic)
	if err := s.validate.Struct(in); err != nil {
		return fiber.NewError(fiber.StatusUnprocessableEntity, "topic is required")
	}

	p := &process{
		id:                uuid.NewString(),
		topic:             in.Topic,
		description:       in.Description,
		problem:           in.Problem,
		tree:              generateOutline(in.Topic),
		compositionStatus: backend.CompositionNotStarted,
		retrieval:         backend.RetrievalOverallStatus{OverallStatusMessage: "Not Started"},
	}
	s.processes.Set(p.id, p, cache.DefaultExpiration)
	s.log.Info("process created", zap.String("process_id", p.id), zap.String("topic", p.topic))

	return c.JSON(backend.ProcessCreationResponse{
		ProcessID:      p.id,
		Topic:          p.topic,
		InitialOutline: p.tree,
		Message:        "Process started and outline generated",
	})
}

func (s *Server) updateOutline(c *fiber.Ctx) error {
	p, err := s.lookup(c)
	if err != nil {
		return err
	}
	var req backend.OutlineUpdateRequest
	if err := c.BodyParser(&req); err != nil || req.Outline == nil {
		return fiber.NewError(fiber.StatusUnprocessableEntity, "outline_dict is required")
	}

	p.mu.Lock()
	p.tree = req.Outline
	p.mu.Unlock()

	return c.JSON(backend.OutlineUpdateResponse{ProcessID: p.id, Message: "Outline updated successfully"})
}

func (s *Server) startRetrieval(c *fiber.Ctx) error {
	p, err := s.lookup(c)
	if err != nil {
		return err
	}
	opts := backend.RetrievalOptions{UseWeb: true, UseKB: true}
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&opts); err != nil {
			return fiber.NewError(fiber.StatusUnprocessableEntity, "invalid request body")
		}
	}
	if !opts.UseWeb && !opts.UseKB {
		return fiber.NewError(fiber.StatusBadRequest, "at least one retrieval source must be enabled")
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	leaves := outline.Leaves(p.tree)
	if len(leaves) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "outline has no sections to retrieve")
	}

	now := time.Now().UTC()
	status := backend.RetrievalOverallStatus{
		OverallStatusMessage: "Retrieval In Progress",
		TotalLeafNodes:       len(leaves),
		LeafNodes:            make(map[string]backend.LeafNodeStatus, len(leaves)),
		StartTime:            &now,
	}
	for _, l := range leaves {
		status.LeafNodes[l.ID] = backend.LeafNodeStatus{
			NodeID:        l.ID,
			Title:         l.Title,
			StatusMessage: "Pending",
			RetrievedDocs: []backend.DocumentPreview{},
			LastUpdated:   now,
		}
	}
	p.retrievalStarted = true
	p.retrievalOrder = leaves
	p.retrieval = status
	p.compositionStatus = backend.CompositionNotStarted
	p.compositionStep = 0
	p.article = ""

	return c.JSON(backend.RetrievalStartResponse{
		ProcessID:     p.id,
		Message:       fmt.Sprintf("Retrieval started for %d sections", len(leaves)),
		InitialStatus: *status.Clone(),
	})
}

// retrievalStatus completes one more leaf on every read.
func (s *Server) retrievalStatus(c *fiber.Ctx) error {
	p, err := s.lookup(c)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.retrievalStarted && p.retrieval.CompletedLeafNodes < p.retrieval.TotalLeafNodes {
		leaf := p.retrievalOrder[p.retrieval.CompletedLeafNodes]
		now := time.Now().UTC()
		st := p.retrieval.LeafNodes[leaf.ID]
		st.StatusMessage = "Completed"
		st.CurrentQuery = strings.Join([]string{p.topic, leaf.Title}, ", ")
		st.IterationProgress = "1/1"
		st.RetrievedDocs = []backend.DocumentPreview{
			{ID: uuid.NewString(), CitationKey: "web1", Title: leaf.Title + " overview", Source: "web"},
			{ID: uuid.NewString(), CitationKey: "kb1", Title: leaf.Title + " notes", Source: "kb"},
		}
		st.ContentPreview = fmt.Sprintf("Findings on %s.", leaf.Title)
		st.IsCompleted = true
		st.LastUpdated = now
		p.retrieval.LeafNodes[leaf.ID] = st
		p.retrieval.CompletedLeafNodes++

		if p.retrieval.CompletedLeafNodes == p.retrieval.TotalLeafNodes {
			p.retrieval.OverallStatusMessage = "Retrieval Completed"
			p.retrieval.EndTime = &now
		}
	}

	return c.JSON(backend.RetrievalStatusResponse{ProcessID: p.id, RetrievalStatus: *p.retrieval.Clone()})
}

func (s *Server) startComposition(c *fiber.Ctx) error {
	p, err := s.lookup(c)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.retrievalStarted || p.retrieval.CompletedLeafNodes < p.retrieval.TotalLeafNodes {
		return fiber.NewError(fiber.StatusBadRequest, "retrieval has not completed")
	}
	p.compositionStatus = "Composition In Progress"
	p.compositionStep = 0
	p.article = ""

	return c.JSON(backend.CompositionStartResponse{ProcessID: p.id, Message: "Article composition started"})
}

// article advances a running composition by one step on every read.
func (s *Server) article(c *fiber.Ctx) error {
	p, err := s.lookup(c)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	running := p.compositionStatus != backend.CompositionNotStarted &&
		p.compositionStatus != backend.CompositionCompleted &&
		p.compositionStatus != backend.CompositionError
	if running {
		next := compositionSteps[p.compositionStep]
		p.compositionStep++
		switch {
		case s.opts.FailComposition && next == compositionSteps[len(compositionSteps)-2]:
			p.compositionStatus = backend.CompositionError
			p.article = "Error during composition: simulated failure"
		case next == backend.CompositionCompleted:
			p.compositionStatus = next
			p.article = renderArticle(p.tree)
		default:
			p.compositionStatus = next
		}
	}

	return c.JSON(backend.ArticleResponse{
		ProcessID:         p.id,
		CompositionStatus: p.compositionStatus,
		ArticleContent:    p.article,
	})
}
