package swarm

// Integrate moves every agent along its normalized heading by speed*dt.
// Agents do not interact, only Position is written.
// An agent whose heading cannot be normalized is left in place and counted
// as skipped.
func Integrate(p *Population, speed, dt float64) (moved, skipped int) {
	step := speed * dt
	for i := range p.agents {
		a := &p.agents[i]
		dir, err := a.Heading.Unit()
		if err != nil {
			skipped++
			continue
		}
		a.Position = a.Position.Add(dir.Mul(step))
		moved++
	}
	return moved, skipped
}

// Orient sets each agent's display rotation from its heading.
func Orient(p *Population) {
	for i := range p.agents {
		p.agents[i].Rotation = p.agents[i].Heading.HeadingAngle()
	}
}
