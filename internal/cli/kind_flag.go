package cli

import (
	"fmt"

	"github.com/spf13/pflag"
	"github.com/whiteindia/selftrack-sub002/internal/domain"
)

// subjectKindFlag parses --kind into a domain.SubjectKind.
type subjectKindFlag struct {
	kind domain.SubjectKind
}

var _ pflag.Value = (*subjectKindFlag)(nil)

func newSubjectKindFlag() *subjectKindFlag {
	return &subjectKindFlag{kind: domain.SubjectTask}
}

func (f *subjectKindFlag) String() string { return string(f.kind) }

func (f *subjectKindFlag) Set(s string) error {
	k := domain.SubjectKind(s)
	if !k.IsValid() {
		return fmt.Errorf("must be %q or %q", domain.SubjectTask, domain.SubjectSubtask)
	}
	f.kind = k
	return nil
}

func (f *subjectKindFlag) Type() string { return "kind" }
