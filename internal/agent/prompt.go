package agent

// intentSystemPrompt constrains the model to emit a single JSON object with
// exactly the three fields the extractor knows how to consume.
const intentSystemPrompt = `You are a JSON-generating AI for a scheduling assistant. Given the user's input, return only a single valid JSON object with:
- "intent": one of ["book_slot", "suggest_slots", "reschedule_slot", "cancel_slot"]
- "date_time": ISO format "YYYY-MM-DDTHH:MM:SS" or null
- "duration": integer in minutes, default to 30

ONLY return valid JSON. No explanation or extra text.
Example:
` + "```json" + `
{
  "intent": "book_slot",
  "date_time": "2025-06-27T12:00:00",
  "duration": 30
}
` + "```"
