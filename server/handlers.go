package server

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/poiesic/digitalpulse/analysis"
	"github.com/poiesic/digitalpulse/annotate"
	"github.com/poiesic/digitalpulse/core"
)

type recordRequest struct {
	Text          string `json:"text"`
	TopicID       string `json:"topic_id"`
	Type          string `json:"type"`
	Effectiveness string `json:"effectiveness"`
}

type metadataRequest struct {
	TopicID       string `json:"topic_id"`
	Type          string `json:"type"`
	Effectiveness string `json:"effectiveness"`
}

type analyzeRequest struct {
	Text string `json:"text"`
}

// TopicResponse is a topic with the opinions linked to it.
type TopicResponse struct {
	Topic      *core.Topic      `json:"topic"`
	Opinions   []*core.Opinion  `json:"opinions"`
	Conclusion *core.Conclusion `json:"conclusion,omitempty"`
}

// AnalysisResponse wraps a report with its informational message.
type AnalysisResponse struct {
	*analysis.Report
	Message string `json:"message,omitempty"`
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) stats(c *gin.Context) {
	var stats core.Stats
	err := s.exec.run(c.Request.Context(), func() error {
		var err error
		stats, err = s.store.Stats(c.Request.Context())
		return err
	})
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (s *Server) listTopics(c *gin.Context) {
	var topics []*core.Topic
	err := s.exec.run(c.Request.Context(), func() error {
		var err error
		topics, err = s.store.Topics(c.Request.Context())
		return err
	})
	if err != nil {
		s.fail(c, err)
		return
	}
	if topics == nil {
		topics = []*core.Topic{}
	}
	c.JSON(http.StatusOK, topics)
}

func (s *Server) getTopic(c *gin.Context) {
	ctx := c.Request.Context()
	key := c.Param("key")

	res := TopicResponse{Opinions: []*core.Opinion{}}
	err := s.exec.run(ctx, func() error {
		topic, err := s.store.GetTopicByKey(ctx, key)
		if err != nil {
			return err
		}
		res.Topic = topic

		opinions, err := s.store.GetOpinionsByTopicID(ctx, key)
		if err != nil {
			return err
		}
		if opinions != nil {
			res.Opinions = opinions
		}

		conclusion, err := s.store.GetConclusionByTopicID(ctx, key)
		if err != nil && !errors.Is(err, core.ErrNotFound) {
			return err
		}
		res.Conclusion = conclusion
		return nil
	})
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (s *Server) addTopic(c *gin.Context) {
	var req recordRequest
	if !s.bind(c, &req) {
		return
	}
	var key string
	err := s.exec.run(c.Request.Context(), func() error {
		var err error
		key, err = s.store.AddTopic(c.Request.Context(), req.Text, req.Type, req.Effectiveness)
		return err
	})
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"key": key})
}

func (s *Server) addConclusion(c *gin.Context) {
	var req recordRequest
	if !s.bind(c, &req) {
		return
	}
	var id string
	err := s.exec.run(c.Request.Context(), func() error {
		var err error
		id, err = s.store.AddConclusion(c.Request.Context(), c.Param("key"), req.Text, req.Type, req.Effectiveness)
		return err
	})
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

func (s *Server) addOpinion(c *gin.Context) {
	var req recordRequest
	if !s.bind(c, &req) {
		return
	}
	var id string
	err := s.exec.run(c.Request.Context(), func() error {
		var err error
		id, err = s.store.AddOpinion(c.Request.Context(), req.Text, req.TopicID, req.Type, req.Effectiveness)
		return err
	})
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

func (s *Server) updateOpinion(c *gin.Context) {
	var req metadataRequest
	if !s.bind(c, &req) {
		return
	}
	id := c.Param("id")
	var updated bool
	err := s.exec.run(c.Request.Context(), func() error {
		var err error
		updated, err = s.store.UpdateOpinionMetadata(c.Request.Context(), id, req.TopicID, req.Type, req.Effectiveness)
		return err
	})
	if err != nil {
		s.fail(c, err)
		return
	}
	if !updated {
		s.fail(c, core.NotFound(core.KindOpinion, id))
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id, "updated": true})
}

func (s *Server) analyzeText(c *gin.Context) {
	var req analyzeRequest
	if !s.bind(c, &req) {
		return
	}
	var report *analysis.Report
	err := s.exec.run(c.Request.Context(), func() error {
		var err error
		report, err = s.analyzer.AnalyzeText(c.Request.Context(), req.Text)
		return err
	})
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, AnalysisResponse{Report: report, Message: report.Message()})
}

func (s *Server) analyzeTopic(c *gin.Context) {
	var opts []analysis.TopicOption
	if save, _ := strconv.ParseBool(c.Query("save")); save {
		opts = append(opts, analysis.SaveConclusion())
	}
	var report *analysis.Report
	err := s.exec.run(c.Request.Context(), func() error {
		var err error
		report, err = s.analyzer.AnalyzeTopic(c.Request.Context(), c.Param("key"), opts...)
		return err
	})
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, AnalysisResponse{Report: report, Message: report.Message()})
}

func (s *Server) annotateTopic(c *gin.Context) {
	if s.annotator == nil {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "annotation is not enabled"})
		return
	}
	var summary *annotate.Summary
	err := s.exec.run(c.Request.Context(), func() error {
		var err error
		summary, err = s.annotator.Run(c.Request.Context(), c.Param("key"))
		return err
	})
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (s *Server) bind(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		s.fail(c, fmt.Errorf("%w: %w", core.ErrValidation, err))
		return false
	}
	return true
}

// fail writes err with the status matching its error class.
func (s *Server) fail(c *gin.Context, err error) {
	_ = c.Error(err)
	c.JSON(statusFor(err), gin.H{"error": err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, core.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, core.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, core.ErrRemoteService):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
