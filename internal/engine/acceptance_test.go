package engine_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/erik-sundell/solidsph/internal/config"
	"github.com/erik-sundell/solidsph/internal/engine"
)

// impactTrace records one sample per sub-step of a full run.
type impactTrace struct {
	dts      []float64
	comX     []float64
	vx       []float64
	ballPeak []float64

	onset     int // first sub-step with contact density on the ball
	dtCeiling float64

	holderRef []mgl64.Vec2
	holderEnd []mgl64.Vec2
}

func runImpact() *impactTrace {
	e, err := engine.New(config.GetPreset("tiny"))
	Expect(err).NotTo(HaveOccurred())

	wall := e.Body("wall")
	shell := e.Body("ball")
	ball := e.Bridges()[0].Rigid()
	holder := wall.Regions["holder"]
	Expect(holder).NotTo(BeEmpty())

	tr := &impactTrace{
		onset:     -1,
		dtCeiling: e.Config().CFL * (wall.Kern.H / wall.Mat.C0),
	}
	for _, i := range holder {
		tr.holderRef = append(tr.holderRef, wall.Pos[i])
	}

	for !e.Clock().Done() {
		Expect(e.Step()).To(Succeed())

		tr.dts = append(tr.dts, e.Clock().Dt)
		tr.comX = append(tr.comX, ball.COM().X())
		lin, _ := ball.Velocity()
		tr.vx = append(tr.vx, lin.X())

		peak := 0.0
		for _, s := range shell.ContactDensity {
			if s > peak {
				peak = s
			}
		}
		tr.ballPeak = append(tr.ballPeak, peak)
		if tr.onset < 0 && peak > 0 {
			tr.onset = len(tr.ballPeak) - 1
		}
	}

	for _, i := range holder {
		tr.holderEnd = append(tr.holderEnd, wall.Pos[i])
	}
	return tr
}

var _ = Describe("Impact run", Ordered, func() {
	var tr *impactTrace

	BeforeAll(func() {
		tr = runImpact()
	})

	It("reaches the wall before the end time", func() {
		Expect(tr.onset).To(BeNumerically(">", 0))
		Expect(tr.onset).To(BeNumerically("<", len(tr.ballPeak)-1))
	})

	It("approaches monotonically until contact", func() {
		for k := 1; k < tr.onset; k++ {
			Expect(tr.comX[k]).To(BeNumerically("<=", tr.comX[k-1]),
				"sub-step %d moved the ball away from the wall before contact", k)
		}
		Expect(tr.comX[tr.onset-1]).To(BeNumerically("<", tr.comX[0]))
	})

	It("never drives the ball through the wall face", func() {
		for k, x := range tr.comX {
			Expect(x).To(BeNumerically(">", 0), "sub-step %d", k)
		}
	})

	It("decelerates and turns the ball around", func() {
		minVx, minAt := 0.0, -1
		for k, v := range tr.vx {
			if v < minVx {
				minVx, minAt = v, k
			}
		}
		Expect(minVx).To(BeNumerically("<", 0))
		Expect(minAt).To(BeNumerically(">=", tr.onset))
		Expect(minAt).To(BeNumerically("<", len(tr.vx)-1))
		Expect(tr.vx[len(tr.vx)-1]).To(BeNumerically(">", minVx))
	})

	It("rebounds no faster than it arrived", func() {
		minVx, maxVx := 0.0, 0.0
		for _, v := range tr.vx {
			if v < minVx {
				minVx = v
			}
			if v > maxVx {
				maxVx = v
			}
		}
		Expect(maxVx).To(BeNumerically("<", -minVx))
	})

	It("keeps every sub-step within the acoustic ceiling", func() {
		for k, dt := range tr.dts {
			Expect(dt).To(BeNumerically(">", 0), "sub-step %d", k)
			Expect(dt).To(BeNumerically("<=", tr.dtCeiling), "sub-step %d", k)
		}
	})

	It("holds the clamped strip exactly in place", func() {
		Expect(tr.holderEnd).To(Equal(tr.holderRef))
	})
})
