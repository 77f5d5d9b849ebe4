package kb

// Default returns the built-in knowledge base shipped with the demo.
func Default(cutoff float64) *KnowledgeBase {
	return New(map[string][]Entry{
		"OrientationAgent": {
			{Question: "how can i start?", Answer: "To start: login to your LMS dashboard, open the Orientation module, then complete lessons and the short quiz. If you can't find it, provide your username."},
			{Question: "how do i take the orientation?", Answer: "Open Dashboard, then Orientation, then Start Module. Complete each lesson and the orientation assessment to be marked complete."},
			{Question: "where is the orientation module?", Answer: "Orientation is listed under 'My Courses' or 'Course Modules'. If missing, provide your username and I'll check enrollment."},
			{Question: "do i need ms office?", Answer: "No. The course is browser-based. You can use MS365 online if you want to practice offline files."},
		},
		"TechSupportAgent": {
			{Question: "i need access code", Answer: "Please give your username. We'll look for an access code on file or generate/escalate one for you."},
			{Question: "i can't log in", Answer: "Try 'Forgot password' link. If that fails, give your username and any error text (e.g., 'access denied') and we'll check activation."},
			{Question: "how do i install lockdown browser?", Answer: "Download the LockDown Browser installer from the LMS Help link, run the installer and then log in to the browser with your LMS credentials."},
			{Question: "access denied error", Answer: "This usually means your account isn't activated. Provide username and we will resend activation or escalate to support."},
		},
		"ProgressAgent": {
			{Question: "show my progress", Answer: "Provide your username and I will return modules completed, percent complete, and pending quizzes."},
			{Question: "where am i in my course?", Answer: "You are currently on module X. Provide username for exact module name and percent complete."},
			{Question: "how much percent completed?", Answer: "Percent complete is computed as (completed lessons / total lessons) * 100. Provide username for exact figure."},
		},
		"FAQAgent": {
			{Question: "what is the refund policy?", Answer: "Refunds: allowed within 7 days of enrollment if < 10% course completed. Contact support with your username to submit a request."},
			{Question: "what are class timings?", Answer: "Course is self-paced. Live office hours: Monday & Thursday 7-9 PM (local)."},
			{Question: "how long is the course?", Answer: "Typical 8-12 weeks depending on learner pace."},
			{Question: "do i get a certificate?", Answer: "Yes, on 100% completion and passing the final assessment."},
		},
		"ErrorAgent": {
			{Question: "server error", Answer: "Please copy the full error message and approximate time; we'll check server logs."},
			{Question: "app crashed", Answer: "Try clearing browser cache and reloading. If it persists, tell us steps to reproduce and browser/version."},
		},
	}, cutoff)
}
