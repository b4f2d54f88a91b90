// Package httpapi is the thin surrounding service that gives the versioning
// core an executable home — decode request, call a Core operation, encode
// response — mirroring the shape of the teacher's services/workflow package.
package httpapi

import (
	"log/slog"

	"github.com/gorilla/mux"

	"github.com/playbook-graph/versioning-core/internal/commitstore"
	"github.com/playbook-graph/versioning-core/internal/orchestrator"
)

// Service handles HTTP requests for the six Core operations. It depends on
// the orchestrator and the store interface rather than concrete
// implementations, keeping the HTTP layer decoupled from persistence.
type Service struct {
	orch   *orchestrator.Orchestrator
	store  commitstore.Store
	logger *slog.Logger
}

func NewService(orch *orchestrator.Orchestrator, store commitstore.Store, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{orch: orch, store: store, logger: logger}
}

func (s *Service) LoadRoutes(parentRouter *mux.Router) {
	router := parentRouter.PathPrefix("/playbooks").Subrouter()
	router.StrictSlash(false)
	router.Use(requestIDMiddleware)
	router.Use(jsonMiddleware)

	router.HandleFunc("/linear-to-graph", s.HandleLinearToGraph).Methods("POST")
	router.HandleFunc("/graph-to-linear", s.HandleGraphToLinear).Methods("POST")
	router.HandleFunc("/validate", s.HandleValidate).Methods("POST")
	router.HandleFunc("/normalize", s.HandleNormalize).Methods("POST")

	branchRouter := parentRouter.PathPrefix("/branches").Subrouter()
	branchRouter.Use(requestIDMiddleware)
	branchRouter.Use(jsonMiddleware)
	branchRouter.HandleFunc("/merge", s.HandleMergeBranches).Methods("POST")
	branchRouter.HandleFunc("/common-ancestor", s.HandleCommonAncestor).Methods("GET")
}
