package spec_test

import (
	"io/ioutil"
	"net/http"
	"os"
	"path/filepath"

	"github.com/zerbitx/gnockthru/spec"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("ParseBodySpec", func() {
	It("classifies recognized suffixes as file references", func() {
		for _, body := range []string{"data.json", "page.html", "notes.txt", "sub/dir/data.json"} {
			Expect(spec.ParseBodySpec(body)).To(Equal(spec.BodySpec{Kind: spec.FileRef, Value: body}))
		}
	})

	It("classifies everything else as literal text", func() {
		for _, body := range []string{"Hello from test!", "", `{"a":1}`, "data.jsonx", "data.yaml"} {
			Expect(spec.ParseBodySpec(body)).To(Equal(spec.BodySpec{Kind: spec.Literal, Value: body}))
		}
	})
})

var _ = Describe("Catalog", func() {
	Describe("Load", func() {
		It("loads the fixture catalog in declaration order", func() {
			catalog, err := spec.Load("../fixtures/catalog.yaml")

			Expect(err).ShouldNot(HaveOccurred())
			Expect(catalog.Dir).To(Equal("../fixtures"))
			Expect(catalog.Mocks[0].Method).To(Equal("GET"))
			Expect(catalog.Mocks[0].Path).To(Equal("/test"))
			Expect(catalog.Mocks[0].BodySpec.Kind).To(Equal(spec.Literal))
			Expect(catalog.Mocks[1].BodySpec).To(Equal(spec.BodySpec{Kind: spec.FileRef, Value: "data.json"}))
		})

		It("defaults a missing status to 200", func() {
			catalog, err := spec.Load("../fixtures/catalog.yaml")

			Expect(err).ShouldNot(HaveOccurred())
			Expect(catalog.Mocks[0].Status).To(Equal(http.StatusOK))
		})

		It("keeps a declared status", func() {
			catalog, err := spec.Load("../fixtures/catalog.yaml")

			Expect(err).ShouldNot(HaveOccurred())
			Expect(catalog.Mocks[3].Status).To(Equal(http.StatusCreated))
		})

		It("carries declared headers through", func() {
			catalog, err := spec.Load("../fixtures/catalog.yaml")

			Expect(err).ShouldNot(HaveOccurred())
			Expect(catalog.Mocks[6].Headers).To(HaveKeyWithValue("X-Gnock", "yes"))
		})

		It("errors on a missing file", func() {
			_, err := spec.Load("../fixtures/no-such-catalog.yaml")

			Expect(err).Should(HaveOccurred())
		})

		It("errors on malformed yaml", func() {
			dir, err := ioutil.TempDir("", "gnockthru")
			Expect(err).ShouldNot(HaveOccurred())
			defer os.RemoveAll(dir)

			mangled := filepath.Join(dir, "mangled.yaml")
			Expect(ioutil.WriteFile(mangled, []byte("method: not\n  an: [array"), 0644)).To(Succeed())

			_, err = spec.Load(mangled)
			Expect(err).Should(HaveOccurred())
		})
	})

	Describe("Find", func() {
		var catalog *spec.Catalog

		BeforeEach(func() {
			var err error
			catalog, err = spec.Load("../fixtures/catalog.yaml")
			Expect(err).ShouldNot(HaveOccurred())
		})

		It("matches methods case-insensitively", func() {
			mock, ok := catalog.Find("GET", "/json-endpoint")

			Expect(ok).To(BeTrue())
			Expect(mock.Method).To(Equal("get"))
		})

		It("returns the first declared entry on duplicate keys", func() {
			mock, ok := catalog.Find("GET", "/dupe")

			Expect(ok).To(BeTrue())
			Expect(mock.Status).To(Equal(http.StatusCreated))
			Expect(mock.Body).To(Equal("first"))
		})

		It("matches the path and query exactly as written", func() {
			_, ok := catalog.Find("GET", "/q?a=1&b=2")

			Expect(ok).To(BeTrue())
		})

		It("does not match reordered query parameters", func() {
			_, ok := catalog.Find("GET", "/q?b=2&a=1")

			Expect(ok).To(BeFalse())
		})

		It("misses on an unknown path", func() {
			_, ok := catalog.Find("GET", "/nope")

			Expect(ok).To(BeFalse())
		})

		It("misses on a method mismatch", func() {
			_, ok := catalog.Find("POST", "/test")

			Expect(ok).To(BeFalse())
		})

		It("never matches on a nil catalog", func() {
			var none *spec.Catalog

			_, ok := none.Find("GET", "/test")
			Expect(ok).To(BeFalse())
		})
	})
})
