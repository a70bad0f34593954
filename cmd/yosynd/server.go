package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/adetobi/yosyn/pkg/dictionary"
	"github.com/adetobi/yosyn/pkg/lookup"
	"github.com/adetobi/yosyn/pkg/semantic"
)

type Server struct {
	http.Server
	mux    http.ServeMux
	conf   *Config
	logger *zap.Logger

	dict     *dictionary.Dictionary
	searcher lookup.Searcher
	semantic lookup.Searcher
}

func New(logger *zap.Logger, conf *Config) (*Server, error) {
	s := Server{
		conf:   conf,
		logger: logger,
	}

	s.dict = dictionary.LoadFirst(conf.Dictionary, logger)

	var searcher lookup.Searcher = lookup.NewDict(s.dict)
	if conf.Cached.Path != "" || conf.Cached.InMemory {
		db, err := lookup.OpenBadger(&conf.Cached)
		if err != nil {
			return nil, err
		}
		searcher = lookup.NewCached(searcher, db)
	}
	s.searcher = searcher

	if conf.Semantic.Index != "" {
		index, err := semantic.OpenExisting(conf.Semantic.Index, logger)
		if err != nil {
			return nil, err
		}
		model, err := semantic.ResolveModel(index, conf.Semantic.Model)
		if err != nil {
			index.Close()
			return nil, err
		}
		embedder := semantic.NewOllama(nil, &semantic.OllamaConfig{
			BaseURL: conf.Semantic.BaseURL,
			Model:   model,
		})
		s.semantic = semantic.NewSearcher(index, embedder)
	}

	s.mux.HandleFunc("/api/search", s.middleLogging(s.handleSearch()))
	s.mux.HandleFunc("/api/semantic", s.middleLogging(s.handleSemantic()))
	s.Addr = conf.Host
	s.Server.Handler = &s.mux
	return &s, nil
}

func (s *Server) Close(ctx context.Context) error {
	var reasons []string
	if serverErr := s.Server.Shutdown(ctx); serverErr != nil {
		reasons = append(reasons, "server shutdown failed: "+serverErr.Error())
	}
	if searcherErr := s.searcher.Close(ctx); searcherErr != nil {
		reasons = append(reasons, "searcher close failed: "+searcherErr.Error())
	}
	if s.semantic != nil {
		if semanticErr := s.semantic.Close(ctx); semanticErr != nil {
			reasons = append(reasons, "semantic close failed: "+semanticErr.Error())
		}
	}
	if len(reasons) > 0 {
		return fmt.Errorf("close failed because: %s", strings.Join(reasons, " AND "))
	}
	return nil
}

func (s *Server) respondJSON(w http.ResponseWriter, vPtr interface{}, status int) {
	w.Header().Set("Content-Type", "application/json")
	buffer := new(bytes.Buffer)
	if err := json.NewEncoder(buffer).Encode(vPtr); err != nil {
		s.logger.Error("encoding failed", zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"encoding error"}`))
		return
	}
	w.WriteHeader(status)
	_, _ = w.Write(buffer.Bytes())
}

func (s *Server) middleLogging(handler http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.logger.Info("request",
			zap.String("path", r.URL.Path),
			zap.String("query", r.URL.RawQuery),
			zap.String("client", r.RemoteAddr),
			zap.String("method", r.Method),
		)
		handler(w, r)
	}
}
