package judge

import (
	"context"
	"fmt"

	"gitlab.com/ojcore.net/internal/config"
	"gitlab.com/ojcore.net/internal/core/ports/primary"
	"gitlab.com/ojcore.net/internal/core/ports/secondary"
	"gitlab.com/ojcore.net/internal/core/services/admission"
	"gitlab.com/ojcore.net/internal/domain"
)

// SPJCompiler pre-compiles checker code on a judge server before it is
// referenced by normal judge calls. It follows the same acquire/release
// discipline as judging but talks to the compile endpoint.
type SPJCompiler struct {
	spjLanguages map[string]domain.SPJLanguageConfig
	admission    admission.IAdmissionService
	execClient   secondary.ExecClient
	logger       primary.Logger
}

// NewSPJCompiler creates a new checker pre-compiler
func NewSPJCompiler(languages *config.LanguageSet, adm admission.IAdmissionService, client secondary.ExecClient, logger primary.Logger) *SPJCompiler {
	spjLanguages := make(map[string]domain.SPJLanguageConfig, len(languages.SPJLanguages))
	for _, lang := range languages.SPJLanguages {
		spjLanguages[lang.Name] = lang
	}
	return &SPJCompiler{
		spjLanguages: spjLanguages,
		admission:    adm,
		execClient:   client,
		logger:       logger,
	}
}

// Compile sends the checker source for compilation. The returned string is
// empty on success and a human-readable failure otherwise.
func (c *SPJCompiler) Compile(ctx context.Context, src, version, language string) string {
	langCfg, ok := c.spjLanguages[language]
	if !ok {
		return fmt.Sprintf("No spj compile config for language %s", language)
	}

	server, err := c.admission.Acquire(ctx)
	if err != nil || server == nil {
		return "No available judge_server"
	}
	defer func() {
		if err := c.admission.Release(ctx, server.ID); err != nil {
			c.logger.Error("Failed to release judge server", "serverId", server.ID, "error", err)
		}
	}()

	req := &domain.SPJCompileRequest{
		Src:              src,
		SPJVersion:       version,
		SPJCompileConfig: langCfg.Compile,
	}
	resp, err := c.execClient.CompileSPJ(ctx, server.ServiceURL, req)
	if err != nil {
		return "Failed to call judge server"
	}
	if resp.Err != "" {
		return resp.Diagnostic()
	}
	return ""
}
