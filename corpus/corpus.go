// Package corpus holds the static FAQ entries the semantic index is built
// from. Editing this list changes the corpus hash, which triggers a rebuild
// on the next start.
package corpus

import "faqbot/types"

func Entries() []types.FaqEntry {
	return []types.FaqEntry{
		{
			Question: "What is Code Ninjas?",
			Answer:   "Code Ninjas is a kids coding franchise where children ages 5 to 14 learn to code by building video games. Kids progress through a belt system, from white to black belt, just like martial arts.",
		},
		{
			Question: "What ages do you serve?",
			Answer:   "Our programs serve kids ages 5 to 14. Code Ninjas JR is designed for ages 5 to 7, and the CREATE program is for ages 8 to 14.",
		},
		{
			Question: "How does the belt system work?",
			Answer:   "Ninjas advance through nine belts, white through black. Each belt teaches new coding concepts, and ninjas build progressively harder games as they go. At black belt, ninjas publish a real app.",
		},
		{
			Question: "What is the CREATE program?",
			Answer:   "CREATE is our flagship program for ages 8 to 14. Ninjas learn JavaScript, Lua, and C# by building video games, progressing through a belt system at their own pace.",
		},
		{
			Question: "What is Code Ninjas JR?",
			Answer:   "Code Ninjas JR introduces kids ages 5 to 7 to coding fundamentals through visual block-based activities and guided play.",
		},
		{
			Question: "How much does it cost?",
			Answer:   "Pricing varies by location and program. Please contact your local center for current membership rates and enrollment offers.",
		},
		{
			Question: "What are your hours?",
			Answer:   "Hours vary by center. Most centers are open weekday afternoons and evenings, plus weekend sessions. Check with your local center for its exact schedule.",
		},
		{
			Question: "Do you offer camps?",
			Answer:   "Yes. Centers run camps during school breaks and summer, covering topics like game building, robotics, and Minecraft modding. Camps are open to members and non-members.",
		},
		{
			Question: "Do you offer a free trial?",
			Answer:   "Most centers offer a free trial session so your child can experience the program before enrolling. Contact your local center to schedule one.",
		},
		{
			Question: "Does my child need coding experience?",
			Answer:   "No experience is needed. The curriculum starts from the very beginning and each ninja progresses at their own pace with guidance from our Code Senseis.",
		},
		{
			Question: "What is a Code Sensei?",
			Answer:   "Code Senseis are our instructors. They guide ninjas through the curriculum, help them solve problems, and keep sessions fun and engaging.",
		},
		{
			Question: "How often should my child attend?",
			Answer:   "We recommend two sessions per week. Memberships are flexible, and drop-in scheduling means you pick the times that work for your family.",
		},
		{
			Question: "Do you host birthday parties?",
			Answer:   "Yes. Many centers host Parent's Night Out events and birthday parties with themed gaming and coding activities. Ask your local center about availability and pricing.",
		},
		{
			Question: "What programming languages do kids learn?",
			Answer:   "Ninjas start with visual, block-based coding and progress to JavaScript, Lua for Roblox, and C# for Unity as they advance through the belts.",
		},
		{
			Question: "What is your refund or cancellation policy?",
			Answer:   "Membership and cancellation terms are set by each center. Please contact your local center directly to review its policy.",
		},
		{
			Question: "Is there a contract or long-term commitment?",
			Answer:   "Membership terms vary by center. Many offer month-to-month options. Your local center can walk you through the available plans.",
		},
	}
}
