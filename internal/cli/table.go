package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/labstack/gommon/color"

	"github.com/epicevents/crm/internal/domain"
	"github.com/epicevents/crm/internal/validate"
)

type table struct {
	title   string
	headers []string
	rows    [][]string
}

func (t *table) add(values ...string) {
	t.rows = append(t.rows, values)
}

func (t *table) render(w io.Writer, c *color.Color) error {
	fmt.Fprintln(w, c.Blue(t.title))
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(t.headers, "\t"))
	for _, row := range t.rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	return tw.Flush()
}

func stamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format(validate.DateLayouts[0])
}

func money(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func collaboratorTable(list ...domain.Collaborator) *table {
	t := &table{
		title:   "Collaborators",
		headers: []string{"ID", "FIRST NAME", "LAST NAME", "EMAIL", "PHONE", "DEPARTMENT", "CREATED", "UPDATED"},
	}
	for _, c := range list {
		t.add(strconv.FormatInt(c.ID, 10), c.FirstName, c.LastName, c.Email, c.Phone,
			string(c.Department), stamp(c.Created), stamp(c.Updated))
	}
	return t
}

func clientTable(list ...domain.Client) *table {
	t := &table{
		title:   "Clients",
		headers: []string{"ID", "FIRST NAME", "LAST NAME", "EMAIL", "PHONE", "COMPANY NAME", "CONTACT NAME", "CREATED", "UPDATED"},
	}
	for _, c := range list {
		t.add(strconv.FormatInt(c.ID, 10), c.FirstName, c.LastName, c.Email, c.Phone,
			c.Company.Name, c.ContactName, stamp(c.Created), stamp(c.Updated))
	}
	return t
}

func contractTable(list ...domain.Contract) *table {
	t := &table{
		title:   "Contracts",
		headers: []string{"ID", "CLIENT NAME", "CONTACT NAME", "PRICE", "BALANCE", "SIGNED", "CREATED", "UPDATED"},
	}
	for _, c := range list {
		t.add(c.ID.String(), c.ClientName, c.ContactName, money(c.Price), money(c.Balance),
			strconv.FormatBool(c.Signed), stamp(c.Created), stamp(c.Updated))
	}
	return t
}

func eventTable(list ...domain.Event) *table {
	t := &table{
		title: "Events",
		headers: []string{"ID", "NAME", "START DATE", "END DATE", "LOCATION", "ATTENDEES", "CONTRACT",
			"CONTACT NAME", "NOTE", "CREATED", "UPDATED"},
	}
	for _, e := range list {
		t.add(strconv.FormatInt(e.ID, 10), e.Name, stamp(e.StartDate), stamp(e.EndDate), e.Location,
			strconv.Itoa(e.Attendees), e.ContractID.String(), e.ContactName, e.Note,
			stamp(e.Created), stamp(e.Updated))
	}
	return t
}
