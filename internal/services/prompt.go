package services

import (
	"fmt"

	"alfredoptarigan/cv-architect/internal/models"
)

const codeFence = "```"

// PromptBuilder assembles the instruction documents sent to the model. Every
// method is pure: identical arguments give byte-identical prompts.
type PromptBuilder struct{}

func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

// BuildGenerationPrompt creates prompt for turning raw text into one styled CV
func (pb *PromptBuilder) BuildGenerationPrompt(rawInfo, imageURL string, style models.CvStyle, formatType models.CvFormatType, themeName string) string {
	theme := ResolveTheme(themeName)

	image := imageURL
	if image == "" {
		image = "Not provided. Use a placeholder SVG."
	}
	if formatType == "" {
		formatType = models.FormatChronological
	}

	return fmt.Sprintf(`OBJECTIVE: Turn raw, messy personal text into a polished, professional Curriculum Vitae in the requested style. The result must be rich enough to fill at least one full page.

ROLE: You are "CV Architect", a senior graphic designer and career strategist. You produce documents that look excellent and read persuasively, and you follow the design rules below exactly.

INPUT DATA:
- Raw user information:
%[1]s
%[2]s
%[1]s
- Profile image URL: %[3]s
- Style: %[4]s
- Format: %[5]s
- Color theme: %[6]s
%[7]s
RULES FOR EVERY STYLE:
1. Parse and synthesize: read the raw information carefully and extract the subject's name, contact details, experience, education and skills.
2. Discard noise: ignore UI text ("Skip to search", "Follow", "Message"), ads, follower counts, "People you may know" and anything else that is not the subject's professional story.
3. Fill the page: when the input is sparse, still produce a complete one to two page CV by expanding on what is given and adding common sections such as Projects or Certifications with realistic, editable placeholder content.
4. Follow the design rules for the %[4]s style strictly. This is the most important rule.
5. Profile image: when an image URL is given, use it directly as the src of an <img> tag. Otherwise draw a placeholder SVG that suits the style.
6. Job suggestions: list 3 to 5 specific job titles the finished CV qualifies the person for in "jobSuggestions".
7. HTML: the whole CV is exactly one root <div> element placed in the "html" field. Use Tailwind CSS classes only; no inline style attributes and no <style> tags.
8. No dark mode: the CV is light themed. Never use the "dark:" Tailwind prefix.
9. Response: return only a JSON object with exactly the fields "personName", "html", "jobSuggestions" and "style". "style" MUST be "%[4]s".
`, codeFence, rawInfo, image, style, formatType, theme.Name, DesignInstructions(style, theme.Name))
}

// BuildRefinementPrompt creates prompt for applying one edit request to an existing CV
func (pb *PromptBuilder) BuildRefinementPrompt(currentHTML, editRequest, themeName, imageURL string) string {
	theme := ResolveTheme(themeName)

	return fmt.Sprintf(`OBJECTIVE: Apply the user's edit request to an existing CV while keeping its design language intact.

ROLE: You are "CV Architect", making precise changes to a finished design.

INPUT DATA:
- Current CV HTML:
%[1]shtml
%[2]s
%[1]s
- Edit request: "%[3]s"
- Color theme (reference): %[4]s
- Possibly updated profile image URL: %[5]s

RULES:
1. Identify the existing style first: single column Classic, two column Modern, or asymmetric Creative.
2. Apply only the requested change:
   - If the request changes the profile picture, use the profile image URL above as the new src of the image tag.
   - For content changes, keep the existing tags and classes.
   - For a color change, re-apply the theme colors but keep the original layout and typography.
3. Preserve structure: keep the column layout, typography and styling rules of the original. Do not break the layout or strip its detailed styling.
4. Preserve interactivity: every element that carries the '%[6]s' class in the original keeps that class.
5. No dark mode: never use the "dark:" Tailwind prefix.
6. Read the person's full name from the HTML.
7. Re-evaluate the edited CV and return 3 to 5 suitable job titles in "jobSuggestions".
8. Return the complete updated HTML of the whole CV, still a single root <div>.
9. Response: return only a JSON object with "personName", "html", "jobSuggestions" and the "style" you identified.
`, codeFence, currentHTML, editRequest, theme.Name, imageURL, SkillPillClass)
}

// BuildRatingPrompt creates prompt for critiquing a CV from its image and HTML
func (pb *PromptBuilder) BuildRatingPrompt(html string) string {
	return fmt.Sprintf(`OBJECTIVE: Act as an expert recruiter and give a critical, complete review of a candidate's CV using both its rendered image and its HTML.

ROLE: You are a senior technical recruiter at a leading technology company. You have read thousands of CVs and give direct, actionable feedback.

INPUT:
1. CV image: attached to this request. Judge layout, whitespace, typography, color use and overall visual appeal. Is it professional and easy to scan?
2. CV content (HTML):
%[1]shtml
%[2]s
%[1]s
Judge content quality, clarity, action verbs, quantified achievements, keywords for applicant tracking systems and the strength of the overall story.

CRITERIA:
- First impression and design (visual): clean, modern, clear hierarchy?
- Clarity and concision (content): easy to digest, free of fluff?
- Impact (content): are achievements quantified and is value demonstrated?
- Relevance (content): tailored, with keywords for the target roles?
- Professionalism: no typos or grammar errors, consistent formatting.

RESPONSE: return only a JSON object with:
- "score": a number from 0 to 10 (one decimal allowed) for overall quality and job readiness,
- "pros": strengths, from the recruiter's point of view ("why I would hire this person"),
- "cons": weaknesses and gaps ("what gives me pause"),
- "overallFeedback": one concise paragraph with the most important next steps.
Be honest and critical.
`, codeFence, html)
}

// BuildFormattingPrompt creates prompt for cleaning raw text into structured plain text
func (pb *PromptBuilder) BuildFormattingPrompt(rawInfo string) string {
	return fmt.Sprintf(`OBJECTIVE: Clean and restructure raw, messy text into a well organized summary of a person's professional information.

ROLE: You are a careful data parser and text formatter. Your only job is to turn unstructured text into clean, logical text.

INPUT TEXT:
%[1]s
%[2]s
%[1]s

RULES:
1. Identify the main person the text is about.
2. Extract only these sections, when present:
   - Full Name
   - Contact (email, phone, location, website and LinkedIn URLs)
   - Professional Summary
   - Work Experience (title, company, dates, responsibilities and achievements)
   - Education (degree, institution, dates)
   - Skills (grouped where possible, e.g. Languages, Technical)
   - Projects
   - Certifications
3. Remove all noise: navigation text ("Skip to main content", "Home", "My Network"), social actions ("Follow", "Message", "Connect", follower counts, "People you may know"), ads and promotions, page headers and footers.
4. Use Markdown style headings, for example:
%[1]s
# Full Name

## Contact
- Email: email@example.com
- Phone: (123) 456-7890

## Professional Summary
...

## Work Experience
**Job Title** at Company
*(Start Date - End Date)*
- Achievement

## Education
**Degree**, University
*(Start Date - End Date)*

## Skills
- **Languages:** ...
- **Technical:** ...
%[1]s
5. Return only the cleaned text. No commentary, no explanation, no JSON.
`, codeFence, rawInfo)
}
