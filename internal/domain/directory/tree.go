package directory

// Traversal stops well before any legitimate org depth; hitting the cap is
// treated the same as a detected cycle.
const maxTreeDepth = 100

// BuildOrgTree arranges employees into a manager-reports forest. Roots are
// employees without a manager (or whose manager is unknown). A manager chain
// that revisits an employee yields ErrManagerCycle instead of recursing
// forever.
func BuildOrgTree(employees []Employee) ([]OrgNode, error) {
	reports := make(map[string][]Employee, len(employees))
	known := make(map[string]bool, len(employees))
	for _, e := range employees {
		known[e.ID] = true
	}

	var roots []Employee
	for _, e := range employees {
		if e.ManagerID == "" || !known[e.ManagerID] {
			roots = append(roots, e)
			continue
		}
		reports[e.ManagerID] = append(reports[e.ManagerID], e)
	}

	visited := make(map[string]bool, len(employees))
	forest := make([]OrgNode, 0, len(roots))
	for _, root := range roots {
		node, err := buildNode(root, reports, visited, 0)
		if err != nil {
			return nil, err
		}
		forest = append(forest, node)
	}

	// Employees only reachable through a cycle never get visited from any
	// root; that means the data itself is cyclic.
	if len(visited) != len(employees) {
		return nil, ErrManagerCycle
	}
	return forest, nil
}

func buildNode(emp Employee, reports map[string][]Employee, visited map[string]bool, depth int) (OrgNode, error) {
	if depth > maxTreeDepth || visited[emp.ID] {
		return OrgNode{}, ErrManagerCycle
	}
	visited[emp.ID] = true

	node := OrgNode{Employee: emp}
	for _, report := range reports[emp.ID] {
		child, err := buildNode(report, reports, visited, depth+1)
		if err != nil {
			return OrgNode{}, err
		}
		node.Reports = append(node.Reports, child)
	}
	return node, nil
}
