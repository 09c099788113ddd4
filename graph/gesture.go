package graph

import (
	"fmt"
	"math"
)

// GestureStep is one step of a SequentialGesture: cross threshold on
// axis, compared with '<' if threshold is negative, '>' otherwise
// (spec §4.4 "≝").
type GestureStep struct {
	threshold float64
	axis      *Node
}

// NewGestureStep builds a SequentialGesture step: axis must cross
// threshold, signed to select the comparator ('<' if negative, '>'
// otherwise).
func NewGestureStep(threshold float64, axis *Node) GestureStep {
	return GestureStep{threshold: threshold, axis: axis}
}

func comparatorForGestureThreshold(threshold float64) Comparator {
	if threshold < 0 {
		return LessThan
	}
	return GreaterThan
}

// SequentialGesture ≝ a chain of GestureButton calls, one per step,
// each wrapping its axis in DeltaAxis baselined at the moment the
// preceding step engaged (spec §4.4 "≝"). activation seeds the chain;
// each step's resulting sticky gesture becomes the next step's
// activation, so a step's delta baseline resets exactly when the prior
// step fired, not when the top-level activation was first pressed.
func (c *Cache) SequentialGesture(activation *Node, steps ...GestureStep) (*Node, error) {
	if activation == nil {
		return nil, construction(KindAxisThresholdButton, "missing required dependency %q", "activation_button")
	}
	if len(steps) == 0 {
		return nil, construction(KindAxisThresholdButton, "requires at least one gesture step")
	}
	gesture := activation
	for _, step := range steps {
		if step.axis == nil {
			return nil, construction(KindAxisThresholdButton, "missing required dependency %q", "gesture_axis")
		}
		next, err := c.GestureButton(gesture, step.axis, comparatorForGestureThreshold(step.threshold), step.threshold, true)
		if err != nil {
			return nil, err
		}
		gesture = next
	}
	return gesture, nil
}

// CircleGesture ≝ a four-step SequentialGesture tracing the cardinal
// directions of a circle starting at the top, signed by direction
// (spec §4.4 "≝"): right/down/left/up when clockwise, left/down/
// right/up otherwise. To recognize the circle independent of its
// starting point, OrButton four of these together, one per start
// quadrant — not recommended.
func (c *Cache) CircleGesture(clockwise bool, size float64, xAxis, yAxis, activation *Node) (*Node, error) {
	leftRight := size
	if !clockwise {
		leftRight = -size
	}
	return c.SequentialGesture(activation,
		NewGestureStep(leftRight, xAxis),
		NewGestureStep(-size, yAxis),
		NewGestureStep(-leftRight, xAxis),
		NewGestureStep(size, yAxis),
	)
}

// Flick is active while the largest single-axis velocity magnitude
// among vx_axis, vy_axis, vz_axis exceeds threshold — max(|vx|,|vy|,
// |vz|) > threshold, not Euclidean magnitude — matching the shape of
// a controller swipe gesture (spec §4.4).
func (c *Cache) Flick(vx, vy, vz *Node, threshold float64) (*Node, error) {
	if vx == nil || vy == nil || vz == nil {
		return nil, construction(KindFlick, "missing required dependency %q, %q, or %q", "vx_axis", "vy_axis", "vz_axis")
	}
	paramKey := fmt.Sprintf("threshold=%v", threshold)
	return c.getOrBuild(KindFlick, paramKey, []*Node{vx, vy, vz}, func() (config, state) {
		return config{threshold: threshold}, state{}
	}), nil
}

func evalFlick(n *Node) error {
	vx, vy, vz := n.deps[0].axisValue, n.deps[1].axisValue, n.deps[2].axisValue
	maxAbs := math.Abs(vx)
	if v := math.Abs(vy); v > maxAbs {
		maxAbs = v
	}
	if v := math.Abs(vz); v > maxAbs {
		maxAbs = v
	}
	n.setButton(maxAbs > n.cfg.threshold)
	return nil
}
