package secondary

import (
	"context"

	"gitlab.com/ojcore.net/internal/domain"
)

type ExecClient interface {
	// Judge posts a judge request to the server's /judge endpoint. A transport
	// failure is returned as an error wrapping errs.JudgeServerUnreachable and
	// means "unknown outcome"; a worker-reported error comes back in the
	// response envelope and is definitive.
	Judge(ctx context.Context, serviceURL string, req *domain.JudgeRequest) (*domain.JudgeResponse, error)

	// CompileSPJ posts checker source to /compile_spj for pre-compilation
	CompileSPJ(ctx context.Context, serviceURL string, req *domain.SPJCompileRequest) (*domain.JudgeResponse, error)
}
