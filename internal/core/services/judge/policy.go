package judge

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"gitlab.com/ojcore.net/internal/domain"
)

// rejection is a terminal gate outcome: the submission gets this verdict and
// message and never reaches a judge server.
type rejection struct {
	Result  domain.Verdict
	ErrInfo string
}

// checkDeadline applies the deadline gate. Users on the late-allowed list
// with a configured late deadline are compared against it; everyone else
// against the primary deadline. Returns nil when the submission is in time or
// no deadline is configured.
func checkDeadline(policy *domain.SubmitPolicy, username string, now time.Time, loc *time.Location) *rejection {
	if policy == nil || policy.ExpireTime == nil {
		return nil
	}

	expireAt, err := policy.ExpireAt(loc)
	if err != nil {
		return &rejection{Result: domain.VerdictSystemError, ErrInfo: "Setting error: Time format error"}
	}

	if policy.IsLateAllowed(username) && policy.LateUntil != nil {
		lateUntil, err := policy.LateUntilAt(loc)
		if err != nil {
			return &rejection{Result: domain.VerdictSystemError, ErrInfo: "Setting error: Time format error"}
		}
		if now.After(lateUntil) {
			return &rejection{Result: domain.VerdictExpired, ErrInfo: "Late submission deadline has passed."}
		}
		return nil
	}

	if now.After(expireAt) {
		return &rejection{Result: domain.VerdictExpired, ErrInfo: "Submission deadline has passed."}
	}
	return nil
}

// qualifiedNamePattern matches fully-qualified class references such as
// "new java.util.HashSet" or "java.util.Arrays.sort(...)". It is a
// best-effort static gate, not a security sandbox boundary; the execution
// worker owns sandboxing.
var qualifiedNamePattern = regexp.MustCompile(
	`(new\s+|^|\s+|<|,\s*)([a-zA-Z][a-zA-Z0-9]*(\.[a-zA-Z][a-zA-Z0-9]*)+)(\s*[(<]|\s+[a-zA-Z])`)

// checkImports applies the Java source-policy gate: plain import statements
// first, then fully-qualified in-code references, both against the policy's
// allow-list. hasPolicy distinguishes "problem has a policy blob" from
// "no blob at all" (the latter rejects every import).
func checkImports(code string, policy *domain.SubmitPolicy, hasPolicy bool) *rejection {
	for _, line := range strings.Split(code, "\n") {
		words := strings.Fields(line)
		if len(words) == 0 || words[0] != "import" {
			continue
		}
		if len(words) < 2 {
			return &rejection{Result: domain.VerdictCompileError, ErrInfo: "Invalid import statement."}
		}
		imported := strings.TrimSuffix(words[1], ";")

		if !hasPolicy || !policy.HasImportPolicy() {
			return &rejection{
				Result:  domain.VerdictCompileError,
				ErrInfo: fmt.Sprintf("Import '%s' is not allowed (all imports disabled).", imported),
			}
		}
		if !domain.ImportAllowed(imported, policy.AllowedImports) {
			return &rejection{
				Result:  domain.VerdictCompileError,
				ErrInfo: fmt.Sprintf("Import '%s' is not allowed.", imported),
			}
		}
	}

	return checkQualifiedNames(code, policy, hasPolicy)
}

// checkQualifiedNames scans line by line, skipping comment lines, for
// fully-qualified references into the restricted java/javax namespaces. The
// first violation is terminal and names the offending line and symbol.
func checkQualifiedNames(code string, policy *domain.SubmitPolicy, hasPolicy bool) *rejection {
	allowListed := hasPolicy && policy.HasImportPolicy()

	for i, line := range strings.Split(code, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "//") || strings.HasPrefix(trimmed, "/*") || strings.HasPrefix(trimmed, "*") {
			continue
		}
		for _, match := range qualifiedNamePattern.FindAllStringSubmatch(line, -1) {
			name := match[2]
			if !strings.HasPrefix(name, "java.") && !strings.HasPrefix(name, "javax.") {
				continue
			}
			if !allowListed {
				return &rejection{
					Result:  domain.VerdictCompileError,
					ErrInfo: fmt.Sprintf("Fully qualified class '%s' is not allowed (all imports disabled, line %d).", name, i+1),
				}
			}
			if !domain.ImportAllowed(name, policy.AllowedImports) {
				return &rejection{
					Result:  domain.VerdictCompileError,
					ErrInfo: fmt.Sprintf("Fully qualified class '%s' is not allowed (line %d).", name, i+1),
				}
			}
		}
	}
	return nil
}
