package mcpserver

// MarkupContract describes the canonical card markup that LLM consumers
// should follow when writing study blocks into documents.
const MarkupContract = `# Quizium Card Markup Contract

Study blocks embedded in Markdown documents MUST follow this structure.

## Structure

A study block is a run of consecutive non-blank lines. Blank lines
separate blocks; everything else inside a block belongs to one item.

` + "```" + `markdown
#math

[Q]What is the derivative of x^2?
[H]Apply the power rule.
[A]2x
[B]x
[B]x^2
[B]2x^2
` + "```" + `

## Rules

1. **Topic hashtags** (e.g. ` + "`" + `#math` + "`" + `) may appear anywhere in the document.
   A document with no known hashtag yields no items at all.
2. **[Q] opens a block.** The first line of a block must start with ` + "`" + `[Q]` + "`" + `
   followed by non-empty question text, or the whole block is skipped.
3. **[A] is the answer.** At least one is required for a flashcard.
   If several appear, the last one wins.
4. **[B] lines are wrong answers.** Exactly three non-empty ` + "`" + `[B]` + "`" + ` lines
   together with exactly one ` + "`" + `[A]` + "`" + ` make the block also a multiple-choice
   quiz. Any other count produces a flashcard only.
5. **[H] is an optional hint.** The first one wins.
6. **Do not insert blank lines inside a block** – a blank line ends it.
7. **Rating annotations** look like ` + "`" + `<!--QZ:2026-01-15T10:00:00Z,easy-->` + "`" + `
   and sit on their own line directly above the ` + "`" + `[Q]` + "`" + ` line. They are
   written by the ` + "`" + `rate_card` + "`" + ` tool; do not edit them by hand.
8. **Encoding** is UTF-8; file paths end with ` + "`" + `.md` + "`" + ` and use forward slashes.

## Example

` + "```" + `markdown
#history #geography

Some prose about European capitals. Prose lines without markers are
ignored by the extractor.

<!--QZ:2026-02-01T09:30:00Z,moderate-->
[Q]What is the capital of France?
[A]Paris
[B]Lyon
[B]Marseille
[B]Nice

[Q]Name the river that flows through Paris.
[H]It empties into the English Channel.
[A]The Seine
` + "```" + `
`
