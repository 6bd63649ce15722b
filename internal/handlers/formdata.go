package handlers

import (
	"strings"

	"github.com/RiskyMH/Forms/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"
)

// The editor posts saves as form-encoded payloads keyed by
// form:id, form:name, form:description, repeated form:field-ids (save order),
// and per-field form:<fieldId>:<attr> keys. An absent key means "leave the
// stored attribute unchanged", so presence has to be tracked, not just value.

// parseSaveForm decodes the save payload from the request body.
func parseSaveForm(c *fiber.Ctx) services.SaveFormInput {
	args := c.Request().PostArgs()

	in := services.SaveFormInput{
		ID:          string(args.Peek("form:id")),
		Name:        peekString(args, "form:name"),
		Description: peekString(args, "form:description"),
	}

	for _, raw := range args.PeekMulti("form:field-ids") {
		fieldID := string(raw)
		if fieldID == "" {
			continue
		}

		prefix := "form:" + fieldID + ":"
		field := services.SaveFieldInput{
			ID:             fieldID,
			Name:           peekString(args, prefix+"name"),
			Description:    peekString(args, prefix+"description"),
			Required:       peekBool(args, prefix+"required"),
			OtherOption:    peekBool(args, prefix+"other-option"),
			ShuffleOptions: peekBool(args, prefix+"shuffle-options"),
			OptionsStyle:   peekString(args, prefix+"options-style"),
			TextSize:       peekString(args, prefix+"text-size"),
		}
		if args.Has(prefix + "options") {
			options := make([]string, 0)
			for _, opt := range args.PeekMulti(prefix + "options") {
				options = append(options, string(opt))
			}
			field.Options = options
		}

		in.Fields = append(in.Fields, field)
	}

	return in
}

// parseSubmission decodes a submission payload: formId plus one entry per
// field keyed by field id (multi-valued for checkbox fields). JSON bodies use
// a flexible list so scalar and array answers decode the same way.
func parseSubmission(c *fiber.Ctx) services.SubmissionInput {
	// media type only; a charset parameter may follow
	if strings.HasPrefix(string(c.Request().Header.ContentType()), fiber.MIMEApplicationJSON) {
		return parseJSONSubmission(c)
	}

	args := c.Request().PostArgs()
	in := services.SubmissionInput{
		FormID: string(args.Peek("formId")),
		Values: make(map[string][]string),
	}

	for key, value := range args.All() {
		k := string(key)
		if k == "formId" {
			continue
		}
		in.Values[k] = append(in.Values[k], string(value))
	}

	return in
}

// peekString returns the value for key, or nil when the key was not posted.
func peekString(args *fasthttp.Args, key string) *string {
	if !args.Has(key) {
		return nil
	}
	s := string(args.Peek(key))
	return &s
}

// peekBool returns the "true"/"false" value for key, or nil when absent.
func peekBool(args *fasthttp.Args, key string) *bool {
	if !args.Has(key) {
		return nil
	}
	b := string(args.Peek(key)) == "true"
	return &b
}
