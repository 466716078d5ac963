package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ZaguanLabs/gotdt"
)

type errorBody struct {
	Error     string `json:"error"`
	ErrorCode string `json:"error_code"`
	Detail    string `json:"detail,omitempty"`
}

type translateRequest struct {
	Text               string `json:"text"`
	SourceLanguage     string `json:"source_language"`
	TargetLanguage     string `json:"target_language"`
	PreserveFormatting *bool  `json:"preserve_formatting"`
}

type addTermRequest struct {
	SourceLanguage string `json:"source_language"`
	Term           string `json:"term"`
	TargetLanguage string `json:"target_language"`
	Translation    string `json:"translation"`
}

type healthResponse struct {
	Status             string `json:"status"`
	Timestamp          string `json:"timestamp"`
	Provider           string `json:"provider"`
	ProviderConfigured bool   `json:"provider_configured"`
	Version            string `json:"version"`
	Error              string `json:"error,omitempty"`
}

func (s *Server) handleTranslate(c *gin.Context) {
	var req translateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeValidation(c, &gotdt.ValidationError{Code: gotdt.CodeInvalidRequest, Message: "request body must be a JSON object"})
		return
	}

	doc := gotdt.Document{
		Text:               req.Text,
		SourceLang:         req.SourceLanguage,
		TargetLang:         req.TargetLanguage,
		PreserveFormatting: true,
	}
	if doc.SourceLang == "" {
		doc.SourceLang = s.cfg.Translation.SourceLanguage
	}
	if doc.TargetLang == "" {
		doc.TargetLang = s.cfg.Translation.TargetLanguage
	}
	if req.PreserveFormatting != nil {
		doc.PreserveFormatting = *req.PreserveFormatting
	}

	if err := gotdt.ValidateDocument(doc, s.cfg.Translation.MaxTextLength); err != nil {
		var verr *gotdt.ValidationError
		if errors.As(err, &verr) {
			writeValidation(c, verr)
			return
		}
		s.writeInternal(c, err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), s.cfg.Server.RequestTimeout)
	defer cancel()

	result, err := s.pipeline.TranslateDocument(ctx, doc)
	if err != nil {
		s.writeTranslateError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (s *Server) writeTranslateError(c *gin.Context, err error) {
	var verr *gotdt.ValidationError
	switch {
	case errors.As(err, &verr):
		writeValidation(c, verr)
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		s.logger.Warn("translation timed out",
			"error", err,
			"request_id", c.GetString(requestIDKey))
		c.JSON(http.StatusGatewayTimeout, errorBody{Error: "translation timed out", ErrorCode: "TIMEOUT"})
	default:
		s.logger.Error("translation failed",
			"error", err,
			"request_id", c.GetString(requestIDKey))
		s.writeInternal(c, err)
	}
}

func writeValidation(c *gin.Context, err *gotdt.ValidationError) {
	c.JSON(http.StatusBadRequest, errorBody{Error: err.Message, ErrorCode: err.Code})
}

func (s *Server) handleLanguages(c *gin.Context) {
	c.JSON(http.StatusOK, s.pipeline.SupportedLanguages())
}

func (s *Server) handleListTerms(c *gin.Context) {
	c.JSON(http.StatusOK, s.pipeline.TechnicalTerms())
}

func (s *Server) handleAddTerm(c *gin.Context) {
	var req addTermRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeValidation(c, &gotdt.ValidationError{Code: gotdt.CodeInvalidRequest, Message: "request body must be a JSON object"})
		return
	}

	err := s.pipeline.AddTechnicalTerm(req.SourceLanguage, req.Term, req.TargetLanguage, req.Translation)
	if err != nil {
		var verr *gotdt.ValidationError
		if errors.As(err, &verr) {
			writeValidation(c, verr)
			return
		}
		s.logger.Error("adding technical term failed",
			"error", err,
			"request_id", c.GetString(requestIDKey))
		s.writeInternal(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":         "technical term added",
		"source_language": req.SourceLanguage,
		"term":            req.Term,
		"target_language": req.TargetLanguage,
		"translation":     req.Translation,
	})
}

func (s *Server) handleHealth(c *gin.Context) {
	resp := healthResponse{
		Status:             "healthy",
		Timestamp:          s.now().UTC().Format(time.RFC3339),
		Provider:           s.pipeline.ProviderName(),
		ProviderConfigured: true,
		Version:            gotdt.FullVersion(),
	}

	if s.pinger != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
		defer cancel()
		if err := s.pinger.Ping(ctx); err != nil {
			s.logger.Warn("provider health check failed", "error", err)
			resp.Status = "degraded"
			resp.ProviderConfigured = false
			if !s.cfg.IsProduction() {
				resp.Error = err.Error()
			}
			c.JSON(http.StatusServiceUnavailable, resp)
			return
		}
	}

	c.JSON(http.StatusOK, resp)
}
