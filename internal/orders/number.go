package orders

import (
	"fmt"
	"math/rand"
	"time"
)

const orderNumberPrefix = "WYD"

// NumberGenerator produces human-facing order numbers: WYD, epoch millis, then a random 0-9999 suffix.
type NumberGenerator struct {
	now  func() time.Time
	intn func(int) int
}

func NewNumberGenerator() *NumberGenerator {
	return &NumberGenerator{now: time.Now, intn: rand.Intn}
}

func (g *NumberGenerator) Next() string {
	return fmt.Sprintf("%s%d%d", orderNumberPrefix, g.now().UnixMilli(), g.intn(10000))
}
