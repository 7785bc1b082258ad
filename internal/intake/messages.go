package intake

import (
	"fmt"
	"strconv"
	"strings"
)

// Fixed replies
const (
	MsgEmptyInput       = "Please provide a response to continue."
	MsgStateError       = "Something went wrong. Please type 'restart' to begin again."
	MsgNoQuestions      = "No technical questions available. Something went wrong. Please type 'restart' to begin again."
	MsgCompleted        = "Assessment completed! Type 'restart' to begin a new assessment or close the window."
	MsgConsentReprompt  = "Please type 'continue' to proceed with the privacy notice, or 'exit' to leave the conversation."
	MsgConsentGate      = "Please type 'I consent' to agree to our privacy policy and continue, or 'exit' to leave."
	MsgConsentRequest   = "**Please type 'I consent' to agree and continue, or 'exit' to leave.**"
	MsgReadyReprompt    = "**Type 'ready' when you're prepared to start the technical questions:**"
	MsgTechReprompt     = "**Please list your technical skills (separated by commas):**"
	MsgAnswerPrompt     = "**Please provide your answer:**"
	FallbackAcknowledge = "Thank you for that detailed explanation. Your technical knowledge is evident in your response."
)

// Field prompts
const (
	promptName       = "**Please provide your full name:**"
	promptEmail      = "**Please provide your email address:**"
	promptPhone      = "**Please provide your phone number:**"
	promptExperience = "**Please enter your years of professional experience (as a number):**"

	nextEmail      = "**Great! Now please provide your email address:**"
	nextPhone      = "**Perfect! Now please provide your phone number:**"
	nextExperience = "**Excellent! How many years of professional experience do you have? (Enter a number):**"
	nextTechStack  = "**Fantastic! Now let's talk about your technical skills.**\n\n" +
		"Please list the programming languages, frameworks, and technologies you're proficient in.\n" +
		"You can separate them with commas (e.g., \"Python, React, MongoDB, AWS\"):"
)

func greetingMessage(company string) string {
	return fmt.Sprintf("👋 **Welcome to %s AI Hiring Assistant!**\n\n", company) +
		"I'm here to help assess your technical skills and match you with exciting opportunities.\n\n" +
		"This conversation will take about 5-10 minutes and will cover:\n" +
		"• Basic information collection\n" +
		"• Your technology experience\n" +
		"• A few technical questions based on your skills\n\n" +
		"Before we begin, I need to inform you about our data privacy practices.\n\n" +
		"**Type 'continue' to proceed to the privacy notice, or 'exit' to leave.**"
}

func consentThanksMessage() string {
	return "✅ **Thank you for your consent!**\n\n" +
		"Now, let's collect some basic information about you.\n\n" +
		promptName
}

func farewellMessage(company string) string {
	return fmt.Sprintf("👋 **Thank you for your interest in %s!**\n\n", company) +
		"Your session has been ended. If you'd like to complete the assessment later, " +
		"please start a new conversation.\n\n" +
		"Have a great day!"
}

func rejection(reason, prompt string) string {
	return "❌ " + reason + "\n\n" + prompt
}

func techSummaryMessage(stack []string, years float64, total int) string {
	return fmt.Sprintf("**Excellent! I've identified your technical expertise in: %s**\n\n", strings.Join(stack, ", ")) +
		fmt.Sprintf("Based on your %s years of experience and skills, I've prepared %d personalized technical questions to better assess your knowledge.\n\n",
			formatYears(years), total) +
		"**Ready to begin the technical assessment? Type 'ready' to start:**"
}

func questionMessage(number, total int, technology, question string) string {
	return fmt.Sprintf("**Question %d of %d (%s)**\n\n%s\n\n%s",
		number, total, strings.ToUpper(technology), question, MsgAnswerPrompt)
}

func completionMessage(company string, c *CandidateRecord) string {
	name := orDefault(c.Name, "Candidate")
	experience := "N/A"
	if c.ExperienceYears != nil {
		experience = formatYears(*c.ExperienceYears)
	}
	return fmt.Sprintf("🎉 **Congratulations, %s!**\n\n", name) +
		fmt.Sprintf("You've successfully completed the %s AI technical assessment!\n\n", company) +
		"**Assessment Summary:**\n" +
		fmt.Sprintf("• **Name:** %s\n", orDefault(c.Name, "N/A")) +
		fmt.Sprintf("• **Experience:** %s years\n", experience) +
		fmt.Sprintf("• **Technologies:** %s\n", strings.Join(c.TechStack, ", ")) +
		fmt.Sprintf("• **Questions Answered:** %d\n\n", len(c.Answers)) +
		"**What happens next?**\n" +
		"1. Our technical team will review your responses\n" +
		"2. We'll match your profile with suitable opportunities\n" +
		fmt.Sprintf("3. You'll hear from us within 2-3 business days at %s\n\n", orDefault(c.Email, "your email")) +
		fmt.Sprintf("**Thank you for your time and interest in %s opportunities!**\n\n", company) +
		"You can now close this window or type 'restart' to begin a new assessment."
}

func formatYears(years float64) string {
	return strconv.FormatFloat(years, 'f', -1, 64)
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
