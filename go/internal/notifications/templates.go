package notifications

import (
	"fmt"
	"html"
	"strings"

	"github.com/stevemarchese/superbowl-squares/go/internal/models"
)

// QuarterResult is what every quarter email reports.
type QuarterResult struct {
	Quarter   int
	Team1Name string
	Team2Name string
	Score     models.QuarterScore
	Prize     float64
	Winners   []models.Winner
}

func (r QuarterResult) scoreLine() string {
	return fmt.Sprintf("%s %d - %s %d", r.Team1Name, r.Score.Team1, r.Team2Name, r.Score.Team2)
}

func winnerLabel(w models.Winner) string {
	if w.Cell != nil && !w.Cell.IsOpen() {
		return *w.Cell.OwnerName
	}
	return "unclaimed"
}

// WinnerMessage congratulates the owner of a winning cell on one board.
func WinnerMessage(r QuarterResult, w models.Winner, to models.Contact) Message {
	subject := fmt.Sprintf("You won Q%d on %s!", r.Quarter, w.BoardName)

	text := fmt.Sprintf(`Hi %s,

Congratulations! Your square on %s won quarter %d.

Score: %s
Square: row %d, column %d
Prize: $%.2f
`, to.Name, w.BoardName, r.Quarter, r.scoreLine(), w.Row, w.Col, r.Prize)

	body := fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
	<h1>Quarter %d winner!</h1>
	<p>Hi %s,</p>
	<p>Congratulations! Your square on <strong>%s</strong> won quarter %d.</p>
	<table>
		<tr><td>Score</td><td>%s</td></tr>
		<tr><td>Square</td><td>row %d, column %d</td></tr>
		<tr><td>Prize</td><td><strong>$%.2f</strong></td></tr>
	</table>
</body>
</html>`,
		r.Quarter,
		html.EscapeString(to.Name),
		html.EscapeString(w.BoardName),
		r.Quarter,
		html.EscapeString(r.scoreLine()),
		w.Row, w.Col,
		r.Prize,
	)

	return Message{To: to.Email, ToName: to.Name, Subject: subject, HTMLBody: body, TextBody: text}
}

// ParticipantMessage tells everyone else who won the quarter.
func ParticipantMessage(r QuarterResult, to models.Contact) Message {
	subject := fmt.Sprintf("Q%d results: %s", r.Quarter, r.scoreLine())

	var textRows, htmlRows strings.Builder
	for _, w := range r.Winners {
		label := winnerLabel(w)
		fmt.Fprintf(&textRows, "- %s: %s (row %d, column %d)\n", w.BoardName, label, w.Row, w.Col)
		fmt.Fprintf(&htmlRows, "\t\t<li><strong>%s</strong>: %s (row %d, column %d)</li>\n",
			html.EscapeString(w.BoardName), html.EscapeString(label), w.Row, w.Col)
	}
	if len(r.Winners) == 0 {
		textRows.WriteString("- no winning squares this quarter\n")
		htmlRows.WriteString("\t\t<li>No winning squares this quarter</li>\n")
	}

	text := fmt.Sprintf(`Hi %s,

Quarter %d is final: %s
Prize per board: $%.2f

Winners:
%s`, to.Name, r.Quarter, r.scoreLine(), r.Prize, textRows.String())

	body := fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
	<h1>Quarter %d results</h1>
	<p>Hi %s,</p>
	<p>Quarter %d is final: <strong>%s</strong></p>
	<p>Prize per board: $%.2f</p>
	<ul>
%s	</ul>
</body>
</html>`,
		r.Quarter,
		html.EscapeString(to.Name),
		r.Quarter,
		html.EscapeString(r.scoreLine()),
		r.Prize,
		htmlRows.String(),
	)

	return Message{To: to.Email, ToName: to.Name, Subject: subject, HTMLBody: body, TextBody: text}
}
