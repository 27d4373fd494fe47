package analyzer

import "fmt"

// Instructions is the system instruction sent with every extraction prompt.
const Instructions = "You are a helpful assistant that extracts flood incident information from Indonesian news articles. Respond in JSON format only."

const promptTemplate = `Extract flood incident information from the following Indonesian news article:

Title: %s
Published Time: %s
Content: %s

Note: The published time is in Indonesian format (e.g., "Senin, 10 Nov 2025 17:43 WIB").
Convert it to ISO 8601 format (YYYY-MM-DDThh:mm:ssZ).
The actual flood time should be determined from the article content.
Only put affected areas that are explicitly mentioned flooded in the article, ignore if
any area is only potentially affected or predicted.

Please provide the following information in English:
1. Location details (regency/city and province if mentioned)
2. Flood severity level based on the impact ("mild" if there's minor damages, "moderate" if there's major damages, "severe" if there's casualties or major damages)
3. Time or rough estimation time when it occurred based on the article content (e.g., "2025-11-09", "2025-10-01 until 2025-10-03", or "November 2025")
4. Article published time in ISO 8601 format

Format the response as a JSON with these keys:
- affected_areas: list of dictionaries containing regency/city and province
- flood_severity: string indicating the severity level ("mild", "moderate", "severe")
- flood_time: string of the time or rough estimation of when the flood occurred
- published_time: ISO 8601 formatted timestamp of the article publication
`

// BuildPrompt embeds one article into the extraction prompt.
func BuildPrompt(title, timestamp, content string) string {
	return fmt.Sprintf(promptTemplate, title, timestamp, content)
}
