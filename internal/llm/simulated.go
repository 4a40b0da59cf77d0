package llm

import (
	"context"
	"math/rand"
	"sync"
	"time"
)

const SimulatedModel = "simulated"

// CannedResponses is the fixed set the simulated generator picks from.
var CannedResponses = []string{
	"Our orbital sensors show that the event is filling up fast! You should secure your passage soon.",
	"The Algorand blockchain ensures your ticket is as permanent as a star in the night sky.",
	"I've synchronized your schedule with the upcoming Galaxy Gala. It looks like clear skies ahead!",
	"Pro tip: Keep your Pera Wallet linked for instant verification at the venue gates.",
	"The Hackathon Entry Ticket is a rare NFT asset. It's your key to the VIP sectors of the Odyssey Arena.",
}

// SimulatedGenerator answers without touching the network. It waits for
// delay to mimic provider latency and then returns a random canned response.
type SimulatedGenerator struct {
	delay time.Duration

	mu  sync.Mutex
	rnd *rand.Rand
}

func NewSimulated(delay time.Duration) *SimulatedGenerator {
	return &SimulatedGenerator{
		delay: delay,
		rnd:   rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (s *SimulatedGenerator) Generate(ctx context.Context, _, _ string) (Response, error) {
	t := time.NewTimer(s.delay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return Response{}, ctx.Err()
	case <-t.C:
	}

	s.mu.Lock()
	text := CannedResponses[s.rnd.Intn(len(CannedResponses))]
	s.mu.Unlock()

	return Response{Content: text, Model: SimulatedModel}, nil
}
