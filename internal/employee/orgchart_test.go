package employee

import (
	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"

	"github.com/genzspace/genzflow/internal"
)

func node(id int64, name string, managerID *int64) *OrgNode {
	return &OrgNode{ID: id, Name: name, Role: internal.RoleDeveloper, ManagerID: managerID}
}

func ref(id int64) *int64 { return &id }

var _ = ginkgo.Describe("BuildOrgChart", func() {
	ginkgo.It("should group employees under their managers", func() {
		nodes := []*OrgNode{
			node(1, "Ava", nil),
			node(2, "Ben", ref(1)),
			node(3, "Cleo", ref(1)),
			node(4, "Dana", ref(2)),
		}

		forest, err := BuildOrgChart(nodes)

		gomega.Expect(err).ToNot(gomega.HaveOccurred())
		gomega.Expect(forest).To(gomega.HaveLen(1))
		gomega.Expect(forest[0].Name).To(gomega.Equal("Ava"))
		gomega.Expect(forest[0].Children).To(gomega.HaveLen(2))
		gomega.Expect(forest[0].Children[0].Name).To(gomega.Equal("Ben"))
		gomega.Expect(forest[0].Children[0].Children[0].Name).To(gomega.Equal("Dana"))
	})

	ginkgo.It("should surface employees with a missing manager as roots", func() {
		nodes := []*OrgNode{
			node(1, "Ava", nil),
			// manager 99 is not in the active set
			node(2, "Orphan", ref(99)),
		}

		forest, err := BuildOrgChart(nodes)

		gomega.Expect(err).ToNot(gomega.HaveOccurred())
		gomega.Expect(forest).To(gomega.HaveLen(2))
	})

	ginkgo.It("should fail on a manager cycle instead of recursing", func() {
		nodes := []*OrgNode{
			node(1, "Ava", ref(2)),
			node(2, "Ben", ref(1)),
		}

		_, err := BuildOrgChart(nodes)

		gomega.Expect(err).To(gomega.Equal(ErrManagerCycle))
	})

	ginkgo.It("should detect a self-managed employee as a cycle", func() {
		nodes := []*OrgNode{
			node(1, "Ava", ref(1)),
		}

		_, err := BuildOrgChart(nodes)

		gomega.Expect(err).To(gomega.Equal(ErrManagerCycle))
	})

	ginkgo.It("should return an empty forest for no employees", func() {
		forest, err := BuildOrgChart(nil)

		gomega.Expect(err).ToNot(gomega.HaveOccurred())
		gomega.Expect(forest).To(gomega.BeEmpty())
	})

	ginkgo.It("should order siblings by name", func() {
		nodes := []*OrgNode{
			node(1, "Ava", nil),
			node(2, "Zed", ref(1)),
			node(3, "Ben", ref(1)),
		}

		forest, err := BuildOrgChart(nodes)

		gomega.Expect(err).ToNot(gomega.HaveOccurred())
		gomega.Expect(forest[0].Children[0].Name).To(gomega.Equal("Ben"))
		gomega.Expect(forest[0].Children[1].Name).To(gomega.Equal("Zed"))
	})
})
