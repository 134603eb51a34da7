package engine

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avelinek/tradewinds/internal/geo"
	"github.com/avelinek/tradewinds/internal/world"
)

// testGraph builds a graph directly from name→food stocks, linking every
// listed pair. Positions are synthetic; the engine never reads them.
func testGraph(food map[string]float64, pairs [][2]string) *world.Graph {
	g := &world.Graph{Settlements: make(map[string]*world.Settlement)}
	i := 0
	for name, f := range food {
		g.Settlements[name] = &world.Settlement{
			Name:      name,
			Position:  geo.Coord{Lat: float64(i), Lon: float64(i)},
			Resources: map[string]float64{world.ResourceFood: f},
		}
		i++
	}
	for _, p := range pairs {
		g.Links = append(g.Links, &world.TradeLink{A: p[0], B: p[1], DistanceKm: 1000, Capacity: 50})
	}
	return g
}

func totalFood(g *world.Graph) float64 {
	var sum float64
	for _, s := range g.Settlements {
		sum += s.Food()
	}
	return sum
}

func TestProduceIncreasesUnblockedOnly(t *testing.T) {
	g := testGraph(map[string]float64{"Paris": 100, "Rome": 50}, nil)
	g.Settlements["Rome"].Blocked = true

	require.NoError(t, Produce(g, 10))

	assert.Equal(t, 110.0, g.Settlements["Paris"].Food())
	assert.Equal(t, 50.0, g.Settlements["Rome"].Food(), "blocked settlement must be untouched")
}

func TestProduceNegativeAmountFailsFast(t *testing.T) {
	g := testGraph(map[string]float64{"Paris": 100}, nil)

	err := Produce(g, -1)
	require.ErrorIs(t, err, ErrNegativeAmount)
	assert.Equal(t, 100.0, g.Settlements["Paris"].Food(), "no mutation on error")
}

func TestTradeMovesSurplusToDeficit(t *testing.T) {
	// Literal scenario: A=130, B=80, threshold 100, cap 20.
	// surplus(A)=30, deficit(B)=20, flow = min(30, 20, 20) = 20.
	g := testGraph(map[string]float64{"A": 130, "B": 80}, [][2]string{{"A", "B"}})

	require.NoError(t, Trade(g, 100, 20))

	assert.Equal(t, 110.0, g.Settlements["A"].Food())
	assert.Equal(t, 100.0, g.Settlements["B"].Food())
}

func TestTradeConservesFood(t *testing.T) {
	g := testGraph(
		map[string]float64{"A": 180, "B": 40, "C": 95, "D": 120},
		[][2]string{{"A", "B"}, {"A", "C"}, {"C", "D"}},
	)
	before := totalFood(g)

	require.NoError(t, Trade(g, 100, 20))

	assert.InDelta(t, before, totalFood(g), 1e-9)
}

func TestTradeNoFlowWhenBothAboveThreshold(t *testing.T) {
	// Literal scenario: both at 100, produce 10 → both 110, both above
	// threshold → no flow.
	g := testGraph(map[string]float64{"A": 100, "B": 100}, [][2]string{{"A", "B"}})

	require.NoError(t, Step(g, Params{Production: 10, TradeThreshold: 100, TradeCap: 20}))

	assert.Equal(t, 110.0, g.Settlements["A"].Food())
	assert.Equal(t, 110.0, g.Settlements["B"].Food())
}

func TestTradeExactlyAtThresholdNoFlow(t *testing.T) {
	// Strict comparisons: a settlement sitting exactly at the threshold
	// neither donates nor receives.
	g := testGraph(map[string]float64{"A": 100, "B": 80}, [][2]string{{"A", "B"}})
	require.NoError(t, Trade(g, 100, 20))
	assert.Equal(t, 100.0, g.Settlements["A"].Food())
	assert.Equal(t, 80.0, g.Settlements["B"].Food())

	g = testGraph(map[string]float64{"A": 130, "B": 100}, [][2]string{{"A", "B"}})
	require.NoError(t, Trade(g, 100, 20))
	assert.Equal(t, 130.0, g.Settlements["A"].Food())
	assert.Equal(t, 100.0, g.Settlements["B"].Food())
}

func TestTradeSkipsBlockedEndpoints(t *testing.T) {
	g := testGraph(map[string]float64{"A": 130, "B": 80}, [][2]string{{"A", "B"}})
	g.Settlements["B"].Blocked = true

	require.NoError(t, Trade(g, 100, 20))

	assert.Equal(t, 130.0, g.Settlements["A"].Food())
	assert.Equal(t, 80.0, g.Settlements["B"].Food())
}

func TestTradeAllBlockedIsNoOp(t *testing.T) {
	g := testGraph(
		map[string]float64{"A": 130, "B": 80, "C": 200},
		[][2]string{{"A", "B"}, {"B", "C"}, {"A", "C"}},
	)
	for _, s := range g.Settlements {
		s.Blocked = true
	}

	require.NoError(t, Trade(g, 100, 20))

	assert.Equal(t, 130.0, g.Settlements["A"].Food())
	assert.Equal(t, 80.0, g.Settlements["B"].Food())
	assert.Equal(t, 200.0, g.Settlements["C"].Food())
}

func TestTradeReadsPreStepStocksOnly(t *testing.T) {
	// Hub A straddled by two deficit neighbors. Both flows size against
	// A's stock as of entry, not against intermediate results: each link
	// sees surplus(A)=30 and moves 20, regardless of visitation order.
	g := testGraph(
		map[string]float64{"A": 130, "B": 70, "C": 70},
		[][2]string{{"A", "B"}, {"A", "C"}},
	)

	require.NoError(t, Trade(g, 100, 20))

	assert.Equal(t, 90.0, g.Settlements["A"].Food())
	assert.Equal(t, 90.0, g.Settlements["B"].Food())
	assert.Equal(t, 90.0, g.Settlements["C"].Food())
}

func TestTradeVisitationOrderIrrelevant(t *testing.T) {
	build := func(pairs [][2]string) *world.Graph {
		return testGraph(map[string]float64{"A": 160, "B": 60, "C": 90, "D": 130}, pairs)
	}

	g1 := build([][2]string{{"A", "B"}, {"A", "C"}, {"C", "D"}})
	g2 := build([][2]string{{"C", "D"}, {"A", "C"}, {"A", "B"}})

	require.NoError(t, Trade(g1, 100, 20))
	require.NoError(t, Trade(g2, 100, 20))

	for name := range g1.Settlements {
		assert.Equal(t, g1.Settlements[name].Food(), g2.Settlements[name].Food(), name)
	}
}

func TestTradeFlowNeverDrivesStockNegative(t *testing.T) {
	// Donor surplus bounds every outgoing flow; food stays non-negative
	// without any explicit clamp.
	g := testGraph(
		map[string]float64{"A": 101, "B": 0, "C": 0},
		[][2]string{{"A", "B"}, {"A", "C"}},
	)

	require.NoError(t, Trade(g, 100, 20))

	for name, s := range g.Settlements {
		assert.GreaterOrEqual(t, s.Food(), 0.0, name)
	}
}

func TestTradeSecondCallConverges(t *testing.T) {
	g := testGraph(map[string]float64{"A": 130, "B": 80}, [][2]string{{"A", "B"}})

	require.NoError(t, Trade(g, 100, 20))
	afterFirstA := g.Settlements["A"].Food()
	afterFirstB := g.Settlements["B"].Food()

	// B reached the threshold exactly; the second call is a no-op.
	require.NoError(t, Trade(g, 100, 20))
	assert.Equal(t, afterFirstA, g.Settlements["A"].Food())
	assert.Equal(t, afterFirstB, g.Settlements["B"].Food())
}

func TestTradeNegativeCapFailsFast(t *testing.T) {
	g := testGraph(map[string]float64{"A": 130, "B": 80}, [][2]string{{"A", "B"}})
	require.ErrorIs(t, Trade(g, 100, -5), ErrNegativeAmount)
	assert.Equal(t, 130.0, g.Settlements["A"].Food())
}

func TestStepProducesBeforeTrading(t *testing.T) {
	// B sits at 95: production lifts it to 105, above threshold, so the
	// same step's trade sees no deficit. Order matters.
	g := testGraph(map[string]float64{"A": 130, "B": 95}, [][2]string{{"A", "B"}})

	require.NoError(t, Step(g, Params{Production: 10, TradeThreshold: 100, TradeCap: 20}))

	assert.Equal(t, 140.0, g.Settlements["A"].Food())
	assert.Equal(t, 105.0, g.Settlements["B"].Food())
}

func TestRunZeroStepsIsNoOp(t *testing.T) {
	g := testGraph(map[string]float64{"A": 130, "B": 80}, [][2]string{{"A", "B"}})
	require.NoError(t, Run(g, 0, DefaultParams()))
	assert.Equal(t, 130.0, g.Settlements["A"].Food())
	assert.Equal(t, 80.0, g.Settlements["B"].Food())
}

func TestRunNegativeStepsFailsFast(t *testing.T) {
	g := testGraph(map[string]float64{"A": 100}, nil)
	require.ErrorIs(t, Run(g, -1, DefaultParams()), ErrNegativeSteps)
}

func TestRunSequentialSteps(t *testing.T) {
	g := testGraph(map[string]float64{"A": 100, "B": 100}, [][2]string{{"A", "B"}})
	require.NoError(t, Run(g, 3, DefaultParams()))
	assert.Equal(t, 130.0, g.Settlements["A"].Food())
	assert.Equal(t, 130.0, g.Settlements["B"].Food())
}

func TestSetBlockedUnknownSettlement(t *testing.T) {
	g := testGraph(map[string]float64{"A": 100}, nil)
	require.ErrorIs(t, SetBlocked(g, "Atlantis", true), ErrUnknownSettlement)
}

func TestBlockMidRunFreezesSettlement(t *testing.T) {
	// Scenario from the design brief: block after step 3 of a 6-step run.
	// Steps 4–6 leave the blocked settlement frozen at its step-3 value
	// while neighbors keep producing without trading with it.
	g := testGraph(map[string]float64{"A": 100, "B": 40}, [][2]string{{"A", "B"}})
	p := DefaultParams()

	require.NoError(t, Run(g, 3, p))
	require.NoError(t, SetBlocked(g, "B", true))
	frozen := g.Settlements["B"].Food()

	require.NoError(t, Run(g, 3, p))

	assert.Equal(t, frozen, g.Settlements["B"].Food())
	assert.Greater(t, g.Settlements["A"].Food(), 100.0)
}

func TestSummaryFormatAndOrder(t *testing.T) {
	g := testGraph(map[string]float64{"Rome": 110, "Athens": 87.25, "Cairo": 95}, nil)
	g.Settlements["Cairo"].Blocked = true

	lines := Summary(g)

	require.Len(t, lines, 3)
	assert.Equal(t, "Athens: food=87.2", lines[0])
	assert.Equal(t, "Cairo (BLOCKED): food=95.0", lines[1])
	assert.Equal(t, "Rome: food=110.0", lines[2])
}

func TestDefaultParams(t *testing.T) {
	p := DefaultParams()
	assert.Equal(t, 10.0, p.Production)
	assert.Equal(t, 100.0, p.TradeThreshold)
	assert.Equal(t, 20.0, p.TradeCap)
}

func ExampleSummary() {
	g := testGraph(map[string]float64{"Lima": 100}, nil)
	for _, line := range Summary(g) {
		fmt.Println(line)
	}
	// Output: Lima: food=100.0
}
