package graph

// evalVRStateSource pulls one snapshot from the bound *vr.Source and
// stashes it in node state for every downstream leaf to read this
// tick (spec §4.1). It is the only node kind with no deps and the
// only one that touches the vr package's mutable side, which is why
// its eval function lives apart from the per-kind eval* group.
func evalVRStateSource(n *Node) error {
	n.st.vrState = n.cfg.vrSource.Update()
	return nil
}
