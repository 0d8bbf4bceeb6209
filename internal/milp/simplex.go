package milp

import "math"

const (
	bigM    = 1.0e7
	epsilon = 1.0e-7
)

// lpStatus is the outcome of a single LP relaxation solve.
type lpStatus int

const (
	lpOptimal lpStatus = iota
	lpInfeasible
	lpUnbounded
	lpIterationLimit
)

// lpResult is the solved LP relaxation: per-variable values (in the
// model's original, unshifted coordinates) and the objective value.
type lpResult struct {
	status    lpStatus
	objective float64
	values    []float64
}

// bounds is a per-variable [lb, ub] box, indexed by Var.id. Branch-and-bound
// tightens this box by fixing one variable per branch.
type bounds [][2]float64

func defaultBounds(m *Model) bounds {
	b := make(bounds, len(m.vars))
	for i, v := range m.vars {
		b[i] = [2]float64{v.lb, v.ub}
	}
	return b
}

// solveRelaxation solves the LP relaxation of m restricted to box, via a
// dense-tableau Big-M simplex with Bland's rule for anti-cycling.
func solveRelaxation(m *Model, box bounds) lpResult {
	n := m.numVars()

	// Shift each variable y_i = x_i - lb_i, so y_i in [0, ub_i - lb_i].
	width := make([]float64, n)
	for i := 0; i < n; i++ {
		width[i] = box[i][1] - box[i][0]
		if width[i] < -epsilon {
			return lpResult{status: lpInfeasible}
		}
		if width[i] < 0 {
			width[i] = 0
		}
	}

	// Build constraint rows: original constraints (shifted) plus one upper
	// bound row y_i <= width[i] per variable.
	type row struct {
		coeffs []float64 // length n, over y
		sense  Sense
		rhs    float64
	}
	rows := make([]row, 0, len(m.constraints)+n)
	for _, c := range m.constraints {
		coeffs := make([]float64, n)
		shift := 0.0
		for _, t := range c.expr {
			coeffs[t.Var.id] += t.Coeff
			shift += t.Coeff * box[t.Var.id][0]
		}
		rows = append(rows, row{coeffs: coeffs, sense: c.sense, rhs: c.rhs - shift})
	}
	for i := 0; i < n; i++ {
		if width[i] == 0 {
			continue
		}
		coeffs := make([]float64, n)
		coeffs[i] = 1
		rows = append(rows, row{coeffs: coeffs, sense: LE, rhs: width[i]})
	}

	m_rows := len(rows)

	// Normalize to rhs >= 0.
	for i := range rows {
		if rows[i].rhs < 0 {
			for j := range rows[i].coeffs {
				rows[i].coeffs[j] = -rows[i].coeffs[j]
			}
			rows[i].rhs = -rows[i].rhs
			switch rows[i].sense {
			case LE:
				rows[i].sense = GE
			case GE:
				rows[i].sense = LE
			}
		}
	}

	// Count extra columns: one slack/surplus per LE/GE row, one artificial
	// per GE/EQ row.
	totalCols := n
	slackCol := make([]int, m_rows)
	artCol := make([]int, m_rows)
	for i, r := range rows {
		slackCol[i] = -1
		artCol[i] = -1
		switch r.sense {
		case LE:
			slackCol[i] = totalCols
			totalCols++
		case GE:
			slackCol[i] = totalCols
			totalCols++
			artCol[i] = totalCols
			totalCols++
		case EQ:
			artCol[i] = totalCols
			totalCols++
		}
	}

	// Tableau: m_rows constraint rows + 1 objective row, totalCols+1 (rhs).
	tab := make([][]float64, m_rows+1)
	for i := range tab {
		tab[i] = make([]float64, totalCols+1)
	}
	basic := make([]int, m_rows)

	for i, r := range rows {
		for j, c := range r.coeffs {
			tab[i][j] = c
		}
		switch r.sense {
		case LE:
			tab[i][slackCol[i]] = 1
			basic[i] = slackCol[i]
		case GE:
			tab[i][slackCol[i]] = -1
			tab[i][artCol[i]] = 1
			basic[i] = artCol[i]
		case EQ:
			tab[i][artCol[i]] = 1
			basic[i] = artCol[i]
		}
		tab[i][totalCols] = r.rhs
	}

	// Objective coefficients (maximize): user coefficients on y columns,
	// 0 on slack/surplus, -bigM on artificials.
	objCoeff := make([]float64, totalCols)
	for _, t := range m.objective {
		objCoeff[t.Var.id] += t.Coeff
	}
	for i := range rows {
		if artCol[i] >= 0 {
			objCoeff[artCol[i]] = -bigM
		}
	}

	// Build reduced-cost row: objRow[j] = c_j - sum_i cB[i]*tab[i][j].
	recomputeObjRow := func() {
		for j := 0; j <= totalCols; j++ {
			tab[m_rows][j] = 0
		}
		for j := 0; j < totalCols; j++ {
			tab[m_rows][j] = objCoeff[j]
		}
		for i := 0; i < m_rows; i++ {
			cb := objCoeff[basic[i]]
			if cb == 0 {
				continue
			}
			for j := 0; j <= totalCols; j++ {
				tab[m_rows][j] -= cb * tab[i][j]
			}
		}
	}
	recomputeObjRow()

	const maxIter = 20000
	for iter := 0; iter < maxIter; iter++ {
		// Bland's rule: smallest-index column with positive reduced cost.
		enter := -1
		for j := 0; j < totalCols; j++ {
			if tab[m_rows][j] > epsilon {
				enter = j
				break
			}
		}
		if enter == -1 {
			break // optimal
		}

		leave := -1
		bestRatio := math.Inf(1)
		for i := 0; i < m_rows; i++ {
			if tab[i][enter] > epsilon {
				ratio := tab[i][totalCols] / tab[i][enter]
				if ratio < bestRatio-epsilon || (ratio < bestRatio+epsilon && (leave == -1 || basic[i] < basic[leave])) {
					bestRatio = ratio
					leave = i
				}
			}
		}
		if leave == -1 {
			return lpResult{status: lpUnbounded}
		}

		pivot := tab[leave][enter]
		for j := 0; j <= totalCols; j++ {
			tab[leave][j] /= pivot
		}
		for i := 0; i <= m_rows; i++ {
			if i == leave {
				continue
			}
			factor := tab[i][enter]
			if factor == 0 {
				continue
			}
			for j := 0; j <= totalCols; j++ {
				tab[i][j] -= factor * tab[leave][j]
			}
		}
		basic[leave] = enter

		if iter == maxIter-1 {
			return lpResult{status: lpIterationLimit}
		}
	}

	// Infeasible if any artificial variable remains basic with positive value.
	for i := 0; i < m_rows; i++ {
		bv := basic[i]
		isArt := false
		for _, a := range artCol {
			if a == bv {
				isArt = true
				break
			}
		}
		if isArt && tab[i][totalCols] > epsilon {
			return lpResult{status: lpInfeasible}
		}
	}

	yValues := make([]float64, n)
	for i := 0; i < m_rows; i++ {
		if basic[i] < n {
			yValues[basic[i]] = tab[i][totalCols]
		}
	}

	values := make([]float64, n)
	objective := 0.0
	for i := 0; i < n; i++ {
		values[i] = yValues[i] + box[i][0]
	}
	for _, t := range m.objective {
		objective += t.Coeff * values[t.Var.id]
	}

	return lpResult{status: lpOptimal, objective: objective, values: values}
}
