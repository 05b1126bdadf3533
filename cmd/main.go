package main

import (
	"log"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/loose-quadtree/quadtree"
)

const worldSize = 10_000.0

func main() {
	prng := rand.New(rand.NewPCG(42, 42))
	log.SetFlags(log.Lmicroseconds)

	qt := quadtree.New(0, 0, worldSize, worldSize, 16)

	ts := time.Now()
	ids := make([]int, 0, 10_000)
	for _, r := range randomRects(prng, 10_000) {
		ids = append(ids, qt.Insert(r[0], r[1], r[2], r[3]))
	}
	log.Printf("insert 10000 rects: %v, %s", time.Since(ts), qt)

	var mu sync.Mutex
	wg := sync.WaitGroup{}

	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			mu.Lock()
			qt.Cleanup()
			s := qt.String()
			mu.Unlock()
			log.Printf("Cleanup done, %s", s)
			time.Sleep(time.Second)
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			r := randomRects(prng, 1)[0]
			mu.Lock()
			hits := qt.Query(r[0], r[1], r[2], r[3])
			mu.Unlock()
			log.Printf("Query(%v): %d hits", r, len(hits))
			time.Sleep(time.Millisecond * 505)
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			mu.Lock()
			for _, r := range randomRects(prng, 1_000) {
				ids = append(ids, qt.Insert(r[0], r[1], r[2], r[3]))
			}
			mu.Unlock()
			time.Sleep(time.Second)
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			mu.Lock()
			p10 := len(ids) / 10
			for _, id := range ids[:p10] {
				qt.Remove(id)
			}
			ids = ids[p10:]
			mu.Unlock()
			time.Sleep(time.Second)
		}
	}()

	wg.Wait()
}

// randomRects generates n small rectangles uniformly scattered across
// the world region, each between 1 and 50 units wide and tall.
func randomRects(prng *rand.Rand, n int) [][4]float64 {
	out := make([][4]float64, 0, n)
	for range n {
		x := prng.Float64()*worldSize - worldSize/2
		y := prng.Float64()*worldSize - worldSize/2
		w := 1 + prng.Float64()*49
		h := 1 + prng.Float64()*49
		out = append(out, [4]float64{x, y, x + w, y + h})
	}
	return out
}
