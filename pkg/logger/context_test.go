package logger

import (
	"context"
	"testing"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
)

func TestLogger(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "Logger Suite")
}

var _ = ginkgo.Describe("context logger", func() {
	ginkgo.It("should fall back to the process-wide logger", func() {
		gomega.Expect(From(context.Background())).ToNot(gomega.BeNil())
		gomega.Expect(TraceFrom(context.Background())).To(gomega.BeEmpty())
	})

	ginkgo.It("should carry the trace id and a trace-bound logger", func() {
		ctx := WithTrace(context.Background(), "abc-123")

		gomega.Expect(TraceFrom(ctx)).To(gomega.Equal("abc-123"))
		gomega.Expect(From(ctx)).ToNot(gomega.BeIdenticalTo(LoggerWrapper()))
	})

	ginkgo.It("should stack extra fields on the context logger", func() {
		ctx := With(context.Background(), "feature", "tasks")

		gomega.Expect(From(ctx)).ToNot(gomega.BeIdenticalTo(LoggerWrapper()))
	})
})
