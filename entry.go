package dirwalker

// Flatten consumes the tree and returns its entries in depth-first
// pre-order, preserving the stored child ordering (directories before
// files at every level). It walks with an explicit stack so the depth of
// the tree never grows the call stack, and it detaches children as it
// goes: the tree cannot be flattened twice.
func (entry *Entry) Flatten() []FlatEntry {
	var flatEntries []FlatEntry

	pendingNodes := []*Entry{entry}
	for len(pendingNodes) > 0 {
		currentNode := pendingNodes[len(pendingNodes)-1]
		pendingNodes = pendingNodes[:len(pendingNodes)-1]
		if currentNode == nil {
			continue
		}

		if currentNode.Record != nil {
			flatEntries = append(flatEntries, FlatEntry{
				Record: *currentNode.Record,
				Depth:  currentNode.Depth,
			})
		}

		childNodes := currentNode.Children
		currentNode.Children = nil
		for childIndex := len(childNodes) - 1; childIndex >= 0; childIndex-- {
			pendingNodes = append(pendingNodes, childNodes[childIndex])
		}
	}

	return flatEntries
}

// Find consumes the tree and returns the first node whose record name
// equals the target, searching in the same depth-first pre-order as
// Flatten. It returns nil when no node matches. When several nodes share
// the name, the first one in traversal order wins.
func (entry *Entry) Find(targetName string) *Entry {
	pendingNodes := []*Entry{entry}
	for len(pendingNodes) > 0 {
		currentNode := pendingNodes[len(pendingNodes)-1]
		pendingNodes = pendingNodes[:len(pendingNodes)-1]
		if currentNode == nil {
			continue
		}

		if currentNode.Record != nil && currentNode.Record.Name == targetName {
			return currentNode
		}

		childNodes := currentNode.Children
		currentNode.Children = nil
		for childIndex := len(childNodes) - 1; childIndex >= 0; childIndex-- {
			pendingNodes = append(pendingNodes, childNodes[childIndex])
		}
	}
	return nil
}
