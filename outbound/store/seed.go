package store

import (
	"time"

	"clubdesk/model"
)

// Staff identities referenced by the seed data.
var (
	SeedStaffAnna  = model.StaffRef{ID: "staff-1", Name: "Anna Berger"}
	SeedStaffJonas = model.StaffRef{ID: "staff-2", Name: "Jonas Keller"}
)

func seedTime(day, hour, minute int) time.Time {
	return time.Date(2026, time.March, day, hour, minute, 0, 0, time.UTC)
}

// seed loads the demo club data: tickets with threads, reply templates,
// intake forms, notifications and portal chats. The ticket number
// counter continues after the highest seeded number.
func (s *MemoryStore) seed() {
	s.nextNumber = 1006

	s.tickets = []model.Ticket{
		{
			ID:      "tck-01",
			Number:  "TCK-1001",
			Subject: "Frage zum Jahresbeitrag 2026",
			Requester: model.Requester{
				ID: "member-1", Name: "Petra Schmidt", Email: "petra.schmidt@example.com",
				Department: "Turnen",
			},
			Category:    model.TicketCategoryFeeQuestion,
			Status:      model.TicketStatusOpen,
			AssignedTo:  &SeedStaffAnna,
			UnreadCount: 1,
			Preview:     "Ich habe eine Frage zur Abbuchung des Jahresbeitrags…",
			CreatedAt:   seedTime(2, 9, 15),
			UpdatedAt:   seedTime(3, 14, 20),
		},
		{
			ID:      "tck-02",
			Number:  "TCK-1002",
			Subject: "Mitgliedsbescheinigung benötigt",
			Requester: model.Requester{
				ID: "member-2", Name: "Karl Weber", Email: "karl.weber@example.com",
				Department: "Fußball", Role: "Trainer",
			},
			Category:          model.TicketCategoryDocuments,
			Status:            model.TicketStatusPending,
			AssignedTo:        &SeedStaffJonas,
			UnreadCount:       0,
			MemberUnreadCount: 1,
			Preview:           "Für das Finanzamt brauche ich eine Bescheinigung…",
			CreatedAt:         seedTime(1, 11, 0),
			UpdatedAt:         seedTime(2, 16, 45),
		},
		{
			ID:      "tck-03",
			Number:  "TCK-1003",
			Subject: "Anmeldung Sommerturnier",
			Requester: model.Requester{
				ID: "member-3", Name: "Mia Lorenz", Email: "mia.lorenz@example.com",
				Department: "Tennis",
			},
			Category:    model.TicketCategoryRegistration,
			Status:      model.TicketStatusOpen,
			UnreadCount: 2,
			Preview:     "Kann ich meine Tochter noch für das Turnier anmelden?",
			CreatedAt:   seedTime(3, 8, 30),
			UpdatedAt:   seedTime(4, 10, 5),
		},
		{
			ID:      "tck-04",
			Number:  "TCK-1004",
			Subject: "Login ins Mitgliederportal funktioniert nicht",
			Requester: model.Requester{
				ID: "member-1", Name: "Petra Schmidt", Email: "petra.schmidt@example.com",
				Department: "Turnen",
			},
			Category:    model.TicketCategoryTechnical,
			Status:      model.TicketStatusResolved,
			AssignedTo:  &SeedStaffAnna,
			UnreadCount: 0,
			Preview:     "Das Zurücksetzen des Passworts hat geklappt, danke!",
			CreatedAt:   seedTime(1, 7, 50),
			UpdatedAt:   seedTime(1, 17, 10),
		},
		{
			ID:      "tck-05",
			Number:  "TCK-1005",
			Subject: "Beschwerde über Hallenbelegung",
			Requester: model.Requester{
				ID: "member-4", Name: "Stefan Brandt", Email: "stefan.brandt@example.com",
				Department: "Handball",
			},
			Category:    model.TicketCategoryComplaint,
			Status:      model.TicketStatusClosed,
			UnreadCount: 0,
			Preview:     "Die Halle war am Dienstag erneut doppelt belegt.",
			CreatedAt:   seedTime(1, 19, 0),
			UpdatedAt:   seedTime(2, 9, 0),
		},
	}

	s.messages = map[string][]model.TicketMessage{
		"tck-01": {
			{
				ID: "msg-0101", TicketID: "tck-01",
				Sender:    model.Sender{ID: "member-1", Name: "Petra Schmidt", Type: model.SenderTypeMember},
				Content:   "Guten Tag,\n\nich habe eine Frage zur Abbuchung des Jahresbeitrags. Auf meinem Kontoauszug steht ein **höherer Betrag** als letztes Jahr. Können Sie mir das erklären?",
				CreatedAt: seedTime(2, 9, 15),
			},
			{
				ID: "msg-0102", TicketID: "tck-01",
				Sender:     model.Sender{ID: SeedStaffAnna.ID, Name: SeedStaffAnna.Name, Type: model.SenderTypeStaff},
				Content:    "Beitragserhöhung wurde auf der Mitgliederversammlung im November beschlossen. Protokoll verlinken!",
				IsInternal: true,
				CreatedAt:  seedTime(2, 10, 0),
			},
			{
				ID: "msg-0103", TicketID: "tck-01",
				Sender:    model.Sender{ID: "member-1", Name: "Petra Schmidt", Type: model.SenderTypeMember},
				Content:   "Gibt es dazu schon Neuigkeiten?",
				CreatedAt: seedTime(3, 14, 20),
			},
		},
		"tck-02": {
			{
				ID: "msg-0201", TicketID: "tck-02",
				Sender:    model.Sender{ID: "member-2", Name: "Karl Weber", Type: model.SenderTypeMember},
				Content:   "Hallo,\n\nfür das Finanzamt brauche ich eine Bescheinigung über meine Mitgliedschaft und die gezahlten Beiträge für *2025*.",
				CreatedAt: seedTime(1, 11, 0),
			},
			{
				ID: "msg-0202", TicketID: "tck-02",
				Sender:    model.Sender{ID: SeedStaffJonas.ID, Name: SeedStaffJonas.Name, Type: model.SenderTypeStaff},
				Content:   "Hallo Herr Weber,\n\ndie Bescheinigung ist in Arbeit. Sie erhalten sie bis Ende der Woche per E-Mail.",
				CreatedAt: seedTime(2, 16, 45),
				Attachments: []model.Attachment{
					{ID: "att-1", Name: "vorlage_bescheinigung.pdf", URL: "/files/vorlage_bescheinigung.pdf"},
				},
			},
		},
		"tck-03": {
			{
				ID: "msg-0301", TicketID: "tck-03",
				Sender:    model.Sender{ID: "member-3", Name: "Mia Lorenz", Type: model.SenderTypeMember},
				Content:   "Kann ich meine Tochter noch für das Turnier anmelden?\n\n- Jahrgang 2014\n- Vereinsmitglied seit 2022",
				CreatedAt: seedTime(3, 8, 30),
			},
			{
				ID: "msg-0302", TicketID: "tck-03",
				Sender:    model.Sender{ID: "member-3", Name: "Mia Lorenz", Type: model.SenderTypeMember},
				Content:   "Nachtrag: die Anmeldefrist auf der Webseite ist der 15. März, richtig?",
				CreatedAt: seedTime(4, 10, 5),
			},
		},
		"tck-04": {
			{
				ID: "msg-0401", TicketID: "tck-04",
				Sender:    model.Sender{ID: "member-1", Name: "Petra Schmidt", Type: model.SenderTypeMember},
				Content:   "Ich kann mich nicht mehr ins Portal einloggen. Fehlermeldung: `401 Unauthorized`.",
				CreatedAt: seedTime(1, 7, 50),
			},
			{
				ID: "msg-0402", TicketID: "tck-04",
				Sender:    model.Sender{ID: SeedStaffAnna.ID, Name: SeedStaffAnna.Name, Type: model.SenderTypeStaff},
				Content:   "Guten Morgen Frau Schmidt,\n\nbitte setzen Sie Ihr Passwort über [diesen Link](https://portal.example.com/reset) zurück.",
				CreatedAt: seedTime(1, 9, 30),
			},
			{
				ID: "msg-0403", TicketID: "tck-04",
				Sender:    model.Sender{ID: "member-1", Name: "Petra Schmidt", Type: model.SenderTypeMember},
				Content:   "Das Zurücksetzen des Passworts hat geklappt, danke!",
				CreatedAt: seedTime(1, 17, 10),
			},
			{
				ID: "msg-0404", TicketID: "tck-04",
				Sender:    model.Sender{ID: "system", Name: "System", Type: model.SenderTypeSystem},
				Content:   "Ticket wurde als gelöst markiert.",
				CreatedAt: seedTime(1, 17, 11),
			},
		},
		"tck-05": {
			{
				ID: "msg-0501", TicketID: "tck-05",
				Sender:    model.Sender{ID: "member-4", Name: "Stefan Brandt", Type: model.SenderTypeMember},
				Content:   "Die Halle war am Dienstag erneut doppelt belegt.",
				CreatedAt: seedTime(1, 19, 0),
			},
		},
	}

	s.templates = []model.MessageTemplate{
		{
			ID:        "tpl-1",
			Name:      "Begrüßung",
			Content:   "Hallo,\n\nvielen Dank für Ihre Nachricht. Wir kümmern uns um Ihr Anliegen und melden uns so schnell wie möglich.\n\nMit freundlichen Grüßen\nIhre Geschäftsstelle",
			IsDefault: true,
			CreatedAt: seedTime(1, 8, 0),
			UpdatedAt: seedTime(1, 8, 0),
		},
		{
			ID:        "tpl-2",
			Name:      "Ticket gelöst",
			Content:   "Hallo,\n\nwir betrachten Ihr Anliegen als **gelöst** und schließen das Ticket. Sollte noch etwas offen sein, antworten Sie einfach auf diese Nachricht.\n\nMit freundlichen Grüßen\nIhre Geschäftsstelle",
			IsDefault: true,
			CreatedAt: seedTime(1, 8, 0),
			UpdatedAt: seedTime(1, 8, 0),
		},
		{
			ID:         "tpl-3",
			Name:       "Beitragsrückfrage",
			Content:    "Hallo,\n\nden aktuellen Beitragssatz finden Sie in der Beitragsordnung im Mitgliederportal. Bei Fragen zur Abbuchung nennen Sie uns bitte:\n\n1. Ihre Mitgliedsnummer\n2. Das Abbuchungsdatum\n3. Den abgebuchten Betrag",
			Category:   model.TicketCategoryFeeQuestion,
			UsageCount: 7,
			CreatedBy:  SeedStaffAnna.ID,
			CreatedAt:  seedTime(1, 12, 0),
			UpdatedAt:  seedTime(2, 9, 30),
		},
	}

	s.forms = []model.TicketForm{
		{
			ID: "form-fee", Category: model.TicketCategoryFeeQuestion, Title: "Beitragsfrage",
			Fields: []model.FormField{
				{ID: "subject", Label: "Betreff", Type: model.FieldTypeText, Required: true, Placeholder: "Worum geht es?"},
				{ID: "member_number", Label: "Mitgliedsnummer", Type: model.FieldTypeText, Required: true},
				{ID: "message", Label: "Ihre Frage", Type: model.FieldTypeTextarea, Required: true},
			},
		},
		{
			ID: "form-membership", Category: model.TicketCategoryMembership, Title: "Mitgliedschaft",
			Fields: []model.FormField{
				{ID: "subject", Label: "Betreff", Type: model.FieldTypeText, Required: true},
				{ID: "concern", Label: "Anliegen", Type: model.FieldTypeSelect, Required: true, Options: []string{"Änderung", "Kündigung", "Ruhende Mitgliedschaft", "Sonstiges"}},
				{ID: "message", Label: "Beschreibung", Type: model.FieldTypeTextarea, Required: true},
			},
		},
		{
			ID: "form-documents", Category: model.TicketCategoryDocuments, Title: "Dokumente",
			Fields: []model.FormField{
				{ID: "subject", Label: "Betreff", Type: model.FieldTypeText, Required: true},
				{ID: "document_type", Label: "Dokumentart", Type: model.FieldTypeSelect, Required: true, Options: []string{"Mitgliedsbescheinigung", "Beitragsbescheinigung", "Sonstiges"}},
				{ID: "message", Label: "Anmerkungen", Type: model.FieldTypeTextarea, Required: false},
			},
		},
		{
			ID: "form-technical", Category: model.TicketCategoryTechnical, Title: "Technisches Problem",
			Fields: []model.FormField{
				{ID: "subject", Label: "Betreff", Type: model.FieldTypeText, Required: true},
				{ID: "message", Label: "Problembeschreibung", Type: model.FieldTypeTextarea, Required: true, Placeholder: "Was haben Sie versucht, was ist passiert?"},
				{ID: "screenshot", Label: "Screenshot", Type: model.FieldTypeFile, Required: false},
			},
		},
		{
			ID: "form-general", Category: model.TicketCategoryGeneral, Title: "Allgemeine Anfrage",
			Fields: []model.FormField{
				{ID: "subject", Label: "Betreff", Type: model.FieldTypeText, Required: true},
				{ID: "message", Label: "Ihre Nachricht", Type: model.FieldTypeTextarea, Required: true},
			},
		},
	}

	s.notifications = []model.Notification{
		{
			ID: "ntf-1", Type: model.NotificationTicketReply,
			Title: "Neue Antwort", Message: "TCK-1003: Nachtrag: die Anmeldefrist auf der Webseite…",
			CreatedAt: seedTime(4, 10, 5),
		},
		{
			ID: "ntf-2", Type: model.NotificationTicketAssigned,
			Title: "Ticket zugewiesen", Message: "TCK-1001 wurde Anna Berger zugewiesen.",
			IsRead:    true,
			CreatedAt: seedTime(2, 9, 20),
		},
		{
			ID: "ntf-3", Type: model.NotificationSystem,
			Title: "Wartungsfenster", Message: "Das Portal ist am Sonntag von 6 bis 8 Uhr nicht erreichbar.",
			CreatedAt: seedTime(1, 6, 0),
		},
	}

	s.chats = []model.Chat{
		{
			ID: "chat-1", Kind: model.ChatKindDirect, Name: "Geschäftsstelle",
			Participants: []string{"member-1", SeedStaffAnna.ID},
			LastMessage:  "Gerne, bis nächste Woche!",
			UnreadCount:  1,
			UpdatedAt:    seedTime(3, 15, 0),
		},
		{
			ID: "chat-2", Kind: model.ChatKindGroup, Name: "Abteilung Turnen",
			Participants: []string{"member-1", "member-5", SeedStaffJonas.ID},
			LastMessage:  "Training fällt am Freitag aus.",
			UnreadCount:  0,
			UpdatedAt:    seedTime(2, 18, 30),
		},
	}

	s.chatMessages = map[string][]model.ChatMessage{
		"chat-1": {
			{
				ID: "cmsg-11", ChatID: "chat-1",
				Sender:    model.Sender{ID: "member-1", Name: "Petra Schmidt", Type: model.SenderTypeMember},
				Content:   "Kann ich nächste Woche in der Geschäftsstelle vorbeikommen?",
				Read:      true,
				CreatedAt: seedTime(3, 14, 50),
			},
			{
				ID: "cmsg-12", ChatID: "chat-1",
				Sender:    model.Sender{ID: SeedStaffAnna.ID, Name: SeedStaffAnna.Name, Type: model.SenderTypeStaff},
				Content:   "Gerne, bis nächste Woche!",
				CreatedAt: seedTime(3, 15, 0),
			},
		},
		"chat-2": {
			{
				ID: "cmsg-21", ChatID: "chat-2",
				Sender:    model.Sender{ID: SeedStaffJonas.ID, Name: SeedStaffJonas.Name, Type: model.SenderTypeStaff},
				Content:   "Training fällt am Freitag aus.",
				Read:      true,
				CreatedAt: seedTime(2, 18, 30),
			},
		},
	}
}
