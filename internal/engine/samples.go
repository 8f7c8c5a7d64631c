package engine

// SampleTasks seeds an empty task pool on first start.
func SampleTasks() []string {
	return []string{
		"Review project documentation",
		"Update database schema",
		"Refactor authentication module",
		"Write unit tests",
		"Deploy to staging environment",
		"Schedule team meeting",
		"Optimize API performance",
		"Create design mockups",
	}
}

// SamplePunishments seeds an empty punishment pool on first start.
func SamplePunishments() []string {
	return []string{
		"Do 20 push-ups",
		"Clean the kitchen",
		"No screen time for 1 hour",
		"Write a handwritten apology",
		"Organize your workspace",
		"Do the dishes",
		"Take out the trash",
		"No dessert for today",
	}
}
