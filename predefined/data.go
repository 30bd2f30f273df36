package predefined

// Entries is the curated table consulted before any model call. Answers
// here are authoritative and hand-written, so questions that hit them never
// pay for an embedding or generation round trip.
var Entries = []Entry{
	{
		Question: "What are the hours of operation?",
		Answer: "Center hours vary by location, but most centers are open:\n" +
			"- Monday to Friday: 3:00 PM - 8:00 PM\n" +
			"- Saturday: 10:00 AM - 2:00 PM\n" +
			"- Sunday: Closed\n" +
			"Please check with your local center for its exact schedule.",
	},
	{
		Question: "How do I book a free trial?",
		Answer: "You can book a free trial session on our website by selecting your local center and choosing an available time, or by calling the center directly. Trials run about 45 minutes and no coding experience is needed.",
	},
	{
		Question: "What should my child bring to a session?",
		Answer: "Nothing at all. We provide the computers, headphones, and curriculum. Your ninja just needs to show up ready to build games.",
	},
	{
		Question: "Is Code Ninjas a drop off program?",
		Answer: "Yes. Parents are welcome to stay, but most drop their ninjas off for the session. Our Code Senseis supervise every session.",
	},
	{
		Question: "How long is each session?",
		Answer: "Regular CREATE sessions run 60 minutes. Code Ninjas JR sessions run 45 minutes. Camps typically run half or full days depending on the program.",
	},
	{
		Question: "Do you offer sibling discounts?",
		Answer: "Many centers offer sibling discounts on memberships and camps. Contact your local center for its current offers.",
	},
	{
		Question: "How do I cancel my membership?",
		Answer: "Cancellation is handled by your local center. Reach out to them directly and they will walk you through the process and any notice period in your membership agreement.",
	},
	{
		Question: "Are the instructors background checked?",
		Answer: "Yes. All Code Senseis pass a background check before working with kids, and centers maintain supervision standards during every session.",
	},
}
