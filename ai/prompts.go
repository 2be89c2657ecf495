package ai

// consolidationPrompt is the strict output contract for the consolidation
// call. Every derived fact must carry sources and one of the four confidence
// levels; missing critical information goes into gaps rather than being
// silently omitted.
const consolidationPrompt = `You are consolidating market intelligence for the brand {{brand}} ({{sector}} sector).
Competitors under watch: {{competitors}}.

Using ONLY the collected material below, produce one consolidated market analysis.

Rules:
- Every field must cite its supporting sources in "sources" (provider keys such as "news", "serp", "reddit", "trends", "jobs", or "manual").
- "confidence" must be exactly one of: "high", "medium", "low", "ai_estimated".
- Facts you derive without supporting material must be marked "ai_estimated".
- List missing critical information in "gaps" instead of omitting it.
- Respond with a single JSON object, no prose, matching exactly:

{
  "market_size": {"content": "...", "sources": ["..."], "confidence": "..."},
  "competitive_landscape": {"content": "...", "sources": ["..."], "confidence": "..."},
  "macro_trends": {"content": "...", "sources": ["..."], "confidence": "..."},
  "weak_signals": {"content": "...", "sources": ["..."], "confidence": "..."},
  "customer_insights": {"content": "...", "sources": ["..."], "confidence": "..."},
  "sizing_estimate": {"content": "...", "sources": ["..."], "confidence": "..."},
  "gaps": ["..."]
}

Collected material:
{{context}}`
