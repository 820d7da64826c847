package constant

const EmailTicketReplyTemplate = `
Hallo %s,

zu Ihrer Anfrage gibt es eine neue Antwort.

Ticket-Details:
------------------------------------------
Ticketnummer: %s
Betreff: %s
Kategorie: %s
------------------------------------------

%s

Sie können im Mitgliederportal direkt auf diese Nachricht antworten.

Mit freundlichen Grüßen
Ihre Geschäftsstelle

Hinweis: Dies ist eine automatisch erzeugte Nachricht.
`

// AnnualMembershipFeeEur is quoted in confirmation mails for fee
// questions; the amount itself lives in the association's bylaws.
const AnnualMembershipFeeEur = 120.50

const EmailFeeNoteTemplate = `
Zur Information: Der aktuelle Jahresbeitrag beträgt %s.
`

const EmailTicketReceivedTemplate = `
Hallo %s,

vielen Dank für Ihre Anfrage. Wir haben Ihr Anliegen erhalten und melden
uns so schnell wie möglich.

Ticket-Details:
------------------------------------------
Ticketnummer: %s
Betreff: %s
Kategorie: %s
------------------------------------------

Mit freundlichen Grüßen
Ihre Geschäftsstelle

Hinweis: Dies ist eine automatisch erzeugte Nachricht.
`
