package relay

import (
	"io/ioutil"

	"github.com/sirupsen/logrus"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("parseExtraHeaders", func() {
	discard := logrus.New()
	discard.SetOutput(ioutil.Discard)

	It("splits on the first colon and trims both sides", func() {
		parsed := parseExtraHeaders([]string{"X-Proxy-Bob: yes", "X-Time:  12:30:00 "}, discard)

		Expect(parsed).To(Equal([]extraHeader{
			{name: "X-Proxy-Bob", value: "yes"},
			{name: "X-Time", value: "12:30:00"},
		}))
	})

	It("drops entries without a name and a colon", func() {
		parsed := parseExtraHeaders([]string{"not a header at all", ": no name", "X-Ok: fine"}, discard)

		Expect(parsed).To(Equal([]extraHeader{{name: "X-Ok", value: "fine"}}))
	})
})
